package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain/mocks"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase"
)

func TestScoring_LLMSuccess(t *testing.T) {
	t.Parallel()

	llm := &mocks.MockLLMGateway{}
	llm.On("Call", mock.Anything, mock.MatchedBy(func(r domain.LLMRequest) bool {
		return r.Task == domain.TaskScoring &&
			r.Model == "qwen-max" &&
			r.ResultFormat == domain.FormatMessage &&
			len(r.Prompt.Messages) == 2 &&
			strings.Contains(r.Prompt.Messages[1].Content, "自定义评分表")
	})).Return(domain.LLMResponse{Text: `{
		"core_strengths":"执行力强",
		"areas_for_development":"战略思维",
		"scoring_suggestions":[{"ability":"技术","score":"4.6","basis":"b","suggestion":"s"},{"ability":"协作","score":0}]
	}`}, nil).Once()

	out := usecase.NewScoringService(llm, testSettings()).Suggest(context.Background(), usecase.ScoringInput{
		ReportText: "报告",
		RubricText: "自定义评分表",
	})

	assert.Equal(t, domain.SourceLLM, out.Source)
	assert.Equal(t, "执行力强", out.Value.CoreStrengths)
	require.Len(t, out.Value.ScoringSuggestions, 2)
	assert.Equal(t, 5, out.Value.ScoringSuggestions[0].Score)
	assert.Equal(t, 1, out.Value.ScoringSuggestions[1].Score)
	assert.Equal(t, "", out.Value.ScoringSuggestions[1].Basis)
	llm.AssertExpectations(t)
}

func TestScoring_DefaultRubricFromHints(t *testing.T) {
	t.Parallel()

	llm := &mocks.MockLLMGateway{}
	llm.On("Call", mock.Anything, mock.MatchedBy(func(r domain.LLMRequest) bool {
		user := r.Prompt.Messages[1].Content
		return strings.Contains(user, "员工：张伟") &&
			strings.Contains(user, "职位："+domain.DefaultPosition) &&
			strings.Contains(user, "季度：2025年第三季度") &&
			strings.Contains(user, "5. 学习能力与创新思维")
	})).Return(domain.LLMResponse{Text: `{}`}, nil).Once()

	out := usecase.NewScoringService(llm, testSettings()).Suggest(context.Background(), usecase.ScoringInput{
		ReportText: "报告",
		Hints:      domain.IdentityHints{Name: "张伟", Period: "2025年第三季度"},
	})
	assert.False(t, out.Degraded())
	assert.NotNil(t, out.Value.ScoringSuggestions)
	llm.AssertExpectations(t)
}

func TestScoring_FailuresDegrade(t *testing.T) {
	t.Parallel()

	for _, tc := range llmFailures() {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			llm := &mocks.MockLLMGateway{}
			onTask(llm, domain.TaskScoring, tc.text, tc.err)

			out := usecase.NewScoringService(llm, testSettings()).Suggest(context.Background(), usecase.ScoringInput{ReportText: "r", RubricText: "t"})
			require.True(t, out.Degraded())
			assert.Equal(t, tc.kind, out.Kind())
			assert.NotEmpty(t, out.Value.CoreStrengths)
			assert.NotEmpty(t, out.Value.AreasForDevelopment)
			assert.Len(t, out.Value.ScoringSuggestions, 3)
			for _, s := range out.Value.ScoringSuggestions {
				assert.NotEmpty(t, s.Ability)
				assert.GreaterOrEqual(t, s.Score, 1)
				assert.LessOrEqual(t, s.Score, 5)
			}
			llm.AssertNumberOfCalls(t, "Call", 1)
		})
	}
}
