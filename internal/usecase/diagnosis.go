package usecase

import (
	"context"
	"log/slog"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase/fallback"
)

// DiagnosisInput is an individual diagnosis request. Blank hints take the
// defaults 未知员工, 通用能力模型 and 未知季度.
type DiagnosisInput struct {
	DocumentText string
	Filename     string
	Hints        domain.IdentityHints
}

// DiagnosisReport pairs the diagnosis with the identity read from the document.
type DiagnosisReport struct {
	domain.Outcome[domain.DiagnosisResult]
	Extracted domain.ExtractedIdentity
}

// DiagnosisService produces individual diagnosis reports.
type DiagnosisService struct {
	p        pipeline
	metadata MetadataExtractor
}

// NewDiagnosisService constructs a DiagnosisService.
func NewDiagnosisService(llm domain.LLMGateway, settings LLMSettings) DiagnosisService {
	return DiagnosisService{
		p:        newPipeline(llm, settings),
		metadata: NewMetadataExtractor(llm, settings),
	}
}

// Diagnose extracts identity, fills the hints the caller left at their
// defaults, runs the diagnosis and then overwrites the result's identity echo
// with the merged values.
func (s DiagnosisService) Diagnose(ctx context.Context, in DiagnosisInput) DiagnosisReport {
	ctx, span := startAnalysis(ctx, domain.TaskDiagnosis)
	defer span.End()

	name := orDefault(in.Hints.Name, domain.DefaultEmployeeName)
	model := orDefault(in.Hints.Role, domain.DefaultAbilityModel)
	quarter := orDefault(in.Hints.Period, domain.DefaultQuarter)

	extracted := s.metadata.Extract(ctx, in.DocumentText, in.Filename)
	if name == domain.DefaultEmployeeName && extracted.Name != domain.Unknown {
		name = extracted.Name
	}
	if quarter == domain.DefaultQuarter && extracted.Period != domain.Unknown {
		quarter = extracted.Period
	}
	observability.LoggerFromContext(ctx).Debug("diagnosis identity merged",
		slog.String("name", name), slog.String("ability_model", model), slog.String("quarter", quarter))

	var out domain.Outcome[domain.DiagnosisResult]
	parsed, err := s.p.generate(ctx, domain.AnalysisRequest{
		Task:         domain.TaskDiagnosis,
		DocumentText: in.DocumentText,
		Filename:     in.Filename,
		Hints:        domain.IdentityHints{Name: name, Role: model, Period: quarter},
	})
	if err != nil {
		out = domain.FromFallback(fallback.Diagnosis(name, model, quarter), err)
	} else {
		out = domain.FromLLM(ai.DecodeDiagnosis(parsed))
	}

	info := &out.Value.EmployeeInfo
	info.Name = name
	info.Quarter = quarter
	switch {
	case extracted.Role != domain.Unknown:
		info.Position = extracted.Role
	case info.Position == "":
		info.Position = model
	}

	return DiagnosisReport{Outcome: finish(ctx, span, domain.TaskDiagnosis, out), Extracted: extracted}
}
