// Package usecase contains the analysis orchestrators and supporting services.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai/prompt"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

const tracerName = "github.com/north-leaf-W/Work-report-agent-system/internal/usecase"

// LLMSettings selects model, output format and timeout per task.
type LLMSettings struct {
	AnalysisModel   string
	ScoringModel    string
	ExtractionModel string
	AnalysisTimeout time.Duration
	ShortTimeout    time.Duration
	MaxTokens       int
}

// SettingsFromConfig copies the LLM knobs out of cfg.
func SettingsFromConfig(cfg config.Config) LLMSettings {
	return LLMSettings{
		AnalysisModel:   cfg.AnalysisModel,
		ScoringModel:    cfg.ScoringModel,
		ExtractionModel: cfg.ExtractionModel,
		AnalysisTimeout: cfg.AnalysisTimeout,
		ShortTimeout:    cfg.ShortTimeout,
		MaxTokens:       cfg.AnalysisMaxTokens,
	}
}

// Request builds the gateway request for task.
func (s LLMSettings) Request(task domain.TaskType, p domain.Prompt) domain.LLMRequest {
	req := domain.LLMRequest{
		Task:         task,
		Prompt:       p,
		Model:        s.AnalysisModel,
		ResultFormat: domain.FormatText,
		MaxTokens:    s.MaxTokens,
		Timeout:      s.AnalysisTimeout,
	}
	switch task {
	case domain.TaskScoring:
		req.Model = s.ScoringModel
		req.ResultFormat = domain.FormatMessage
	case domain.TaskMetadata:
		req.Model = s.ExtractionModel
		req.MaxTokens = 0
		req.Timeout = s.ShortTimeout
	}
	return req
}

// pipeline is the Build → Call → Normalize sequence shared by the orchestrators.
type pipeline struct {
	llm        domain.LLMGateway
	prompts    *prompt.Builder
	normalizer *ai.ResponseNormalizer
	settings   LLMSettings
}

func newPipeline(llm domain.LLMGateway, settings LLMSettings) pipeline {
	return pipeline{
		llm:        llm,
		prompts:    prompt.NewBuilder(),
		normalizer: ai.NewResponseNormalizer(),
		settings:   settings,
	}
}

// generate calls the gateway once and parses its text as JSON.
func (p pipeline) generate(ctx context.Context, req domain.AnalysisRequest) (ai.Parsed, error) {
	resp, err := p.llm.Call(ctx, p.settings.Request(req.Task, p.prompts.Build(req)))
	if err != nil {
		return ai.Parsed{}, err
	}
	return p.normalizer.Normalize(resp.Text)
}

func startAnalysis(ctx context.Context, task domain.TaskType) (context.Context, trace.Span) {
	return observability.Tracer(tracerName).Start(ctx, "analysis."+string(task))
}

// finish records metrics, span attributes and a log line for a terminal outcome.
func finish[T any](ctx context.Context, span trace.Span, task domain.TaskType, o domain.Outcome[T]) domain.Outcome[T] {
	kind := o.Kind()
	observability.RecordAnalysis(string(task), string(o.Source), string(kind))
	span.SetAttributes(attribute.String("source", string(o.Source)))

	lg := observability.LoggerFromContext(ctx)
	if o.Degraded() {
		span.SetAttributes(attribute.String("error_kind", string(kind)))
		span.RecordError(o.Cause)
		span.SetStatus(codes.Error, "llm path failed")
		lg.Warn("analysis degraded to fallback",
			slog.String("task", string(task)),
			slog.String("error_kind", string(kind)),
			slog.Any("error", o.Cause))
		return o
	}
	lg.Info("analysis completed", slog.String("task", string(task)), slog.String("source", string(o.Source)))
	return o
}
