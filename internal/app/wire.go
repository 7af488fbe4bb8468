package app

import (
	"context"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai/dashscope"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai/openaicompat"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai/tokencount"
	httpserver "github.com/north-leaf-W/Work-report-agent-system/internal/adapter/httpserver"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/rubric"
	tikaext "github.com/north-leaf-W/Work-report-agent-system/internal/adapter/textextractor/tika"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase"
)

// NewGateway builds the LLM gateway selected by cfg.LLMProvider. A missing
// API key still yields a gateway; its calls fail fast and route to fallback.
func NewGateway(cfg config.Config, tc *tokencount.Counter) domain.LLMGateway {
	if cfg.LLMProvider == config.ProviderOpenAI {
		return openaicompat.New(cfg, openaicompat.WithTokenCounter(tc))
	}
	return dashscope.New(cfg, dashscope.WithTokenCounter(tc))
}

// GatewayFactory returns a builder for throwaway gateways bound to a
// candidate key. The process configuration is never modified.
func GatewayFactory(cfg config.Config, tc *tokencount.Counter) usecase.GatewayFactory {
	return func(key string) domain.LLMGateway {
		return NewGateway(cfg.WithAPIKey(key), tc)
	}
}

// BuildServer wires adapters and usecases into an HTTP server. The test
// environment uses rune estimates instead of downloading BPE tables.
func BuildServer(cfg config.Config) *httpserver.Server {
	var tc *tokencount.Counter
	if !cfg.IsTest() {
		tc = tokencount.NewCounter()
	}
	llm := NewGateway(cfg, tc)
	settings := usecase.SettingsFromConfig(cfg)
	ext := tikaext.New(cfg)

	svc := httpserver.Services{
		Documents:   usecase.NewDocumentService(cfg.UploadDir, ext, rubric.NewLoader()),
		Consistency: usecase.NewConsistencyService(llm, settings),
		Scoring:     usecase.NewScoringService(llm, settings),
		Diagnosis:   usecase.NewDiagnosisService(llm, settings),
		Cohort:      usecase.NewCohortService(),
		Export:      usecase.NewExportService(),
		Probe:       usecase.NewConfigProbe(cfg.LLMProvider, cfg.LLMConfigured(), GatewayFactory(cfg, tc), settings),
	}
	return httpserver.NewServer(cfg, svc, func(ctx context.Context) error { return ext.Ping(ctx) })
}
