package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain/mocks"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase"
)

func testSettings() usecase.LLMSettings {
	return usecase.LLMSettings{
		AnalysisModel:   "qwen-plus",
		ScoringModel:    "qwen-max",
		ExtractionModel: "qwen-turbo",
		AnalysisTimeout: 60 * time.Second,
		ShortTimeout:    30 * time.Second,
		MaxTokens:       2000,
	}
}

func forTask(task domain.TaskType) any {
	return mock.MatchedBy(func(r domain.LLMRequest) bool { return r.Task == task })
}

// onTask stubs one task's gateway answer.
func onTask(llm *mocks.MockLLMGateway, task domain.TaskType, text string, err error) *mock.Call {
	return llm.On("Call", mock.Anything, forTask(task)).Return(domain.LLMResponse{Text: text}, err)
}

type llmFailure struct {
	name string
	text string
	err  error
	kind domain.ErrorKind
}

// llmFailures are the LLM-path failures every orchestrator must absorb,
// including valid JSON that is not an object.
func llmFailures() []llmFailure {
	return []llmFailure{
		{"transport", "", &domain.TransportError{Provider: "dashscope", Op: "call", Err: context.DeadlineExceeded}, domain.KindTransport},
		{"upstream", "", &domain.UpstreamError{Provider: "dashscope", StatusCode: 503, Message: "busy"}, domain.KindUpstream},
		{"parse", "这不是JSON {", nil, domain.KindParse},
		{"null_answer", "null", nil, domain.KindParse},
		{"array_answer", "```json\n[]\n```", nil, domain.KindParse},
		{"number_answer", "42", nil, domain.KindParse},
		{"string_answer", `"好的"`, nil, domain.KindParse},
	}
}
