package usecase

import (
	"context"
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase/fallback"
)

// ScoringInput is a scoring request. A blank RubricText is replaced by the
// five-dimension default built from Hints.
type ScoringInput struct {
	ReportText string
	RubricText string
	Hints      domain.IdentityHints
}

// ScoringService produces per-ability scoring suggestions.
type ScoringService struct {
	p pipeline
}

// NewScoringService constructs a ScoringService.
func NewScoringService(llm domain.LLMGateway, settings LLMSettings) ScoringService {
	return ScoringService{p: newPipeline(llm, settings)}
}

// Suggest always returns a complete result; failures degrade to the canned one.
func (s ScoringService) Suggest(ctx context.Context, in ScoringInput) domain.Outcome[domain.ScoringResult] {
	ctx, span := startAnalysis(ctx, domain.TaskScoring)
	defer span.End()

	parsed, err := s.p.generate(ctx, domain.AnalysisRequest{
		Task:         domain.TaskScoring,
		DocumentText: in.ReportText,
		RubricText:   in.RubricText,
		Hints: domain.IdentityHints{
			Name:   orDefault(in.Hints.Name, domain.DefaultEmployeeName),
			Role:   orDefault(in.Hints.Role, domain.DefaultPosition),
			Period: orDefault(in.Hints.Period, domain.DefaultQuarter),
		},
	})
	if err != nil {
		return finish(ctx, span, domain.TaskScoring, domain.FromFallback(fallback.Scoring(), err))
	}
	return finish(ctx, span, domain.TaskScoring, domain.FromLLM(ai.DecodeScoring(parsed)))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
