package usecase

import (
	"context"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase/fallback"
)

// ConsistencyService checks a report against rubric items.
type ConsistencyService struct {
	p pipeline
}

// NewConsistencyService constructs a ConsistencyService.
func NewConsistencyService(llm domain.LLMGateway, settings LLMSettings) ConsistencyService {
	return ConsistencyService{p: newPipeline(llm, settings)}
}

// Check always returns a complete result. Any gateway or parse failure routes
// to the keyword fallback; there is no second attempt.
func (s ConsistencyService) Check(ctx context.Context, documentText string, rubricItems []string) domain.Outcome[domain.ConsistencyResult] {
	ctx, span := startAnalysis(ctx, domain.TaskConsistency)
	defer span.End()

	parsed, err := s.p.generate(ctx, domain.AnalysisRequest{
		Task:         domain.TaskConsistency,
		DocumentText: documentText,
		RubricItems:  rubricItems,
	})
	if err != nil {
		return finish(ctx, span, domain.TaskConsistency,
			domain.FromFallback(fallback.Consistency(documentText, err), err))
	}
	return finish(ctx, span, domain.TaskConsistency, domain.FromLLM(ai.DecodeConsistency(parsed)))
}
