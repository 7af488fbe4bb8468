package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase/fallback"
	"github.com/north-leaf-W/Work-report-agent-system/pkg/textx"
)

// Labeled lines expected in the extraction answer.
var (
	nameLine   = regexp.MustCompile(`员工姓名[：:]\s*([^\n\r]+)`)
	roleLine   = regexp.MustCompile(`职位信息[：:]\s*([^\n\r]+)`)
	periodLine = regexp.MustCompile(`评估周期[：:]\s*([^\n\r]+)`)
)

// MetadataExtractor derives name, role and period from a document. It asks
// the LLM first and falls back to pattern rules per field.
type MetadataExtractor struct {
	p pipeline
}

// NewMetadataExtractor constructs a MetadataExtractor.
func NewMetadataExtractor(llm domain.LLMGateway, settings LLMSettings) MetadataExtractor {
	return MetadataExtractor{p: newPipeline(llm, settings)}
}

// Extract never fails. A field the LLM leaves absent or "未知" is taken from
// the pattern rules, which may themselves yield domain.Unknown.
func (m MetadataExtractor) Extract(ctx context.Context, text, filename string) domain.ExtractedIdentity {
	lg := observability.LoggerFromContext(ctx).With(slog.String("task", string(domain.TaskMetadata)))
	lg.Debug("metadata extraction start",
		slog.String("filename", filename),
		slog.String("text_head", textx.Prefix(text, 500)))

	req := domain.AnalysisRequest{Task: domain.TaskMetadata, DocumentText: text, Filename: filename}
	resp, err := m.p.llm.Call(ctx, m.p.settings.Request(req.Task, m.p.prompts.Build(req)))
	if err != nil {
		lg.Debug("metadata llm call failed, using pattern rules", slog.Any("error", err))
		id, src := fallback.IdentityWithSources(text, filename)
		lg.Debug("metadata extracted",
			slog.String("name", id.Name), slog.String("name_rule", src.Name),
			slog.String("position", id.Role), slog.String("position_rule", src.Role),
			slog.String("quarter", id.Period), slog.String("quarter_rule", src.Period))
		return id
	}

	raw := strings.TrimSpace(resp.Text)
	lg.Debug("metadata llm answer", slog.String("raw", raw))
	id, fromLLM := ParseIdentityLines(raw)

	var rules domain.ExtractedIdentity
	var src fallback.FieldSources
	if !fromLLM.Name || !fromLLM.Role || !fromLLM.Period {
		rules, src = fallback.IdentityWithSources(text, filename)
		lg.Debug("metadata label missing, using pattern rules for missing fields",
			slog.Bool("name_from_llm", fromLLM.Name),
			slog.Bool("position_from_llm", fromLLM.Role),
			slog.Bool("quarter_from_llm", fromLLM.Period))
	}
	if !fromLLM.Name {
		id.Name = rules.Name
	}
	if !fromLLM.Role {
		id.Role = rules.Role
	}
	if !fromLLM.Period {
		id.Period = rules.Period
	}
	lg.Debug("metadata extracted",
		slog.String("name", id.Name), slog.String("position", id.Role), slog.String("quarter", id.Period),
		slog.String("name_rule", src.Name), slog.String("position_rule", src.Role), slog.String("quarter_rule", src.Period))
	return id
}

// LabelHits reports which fields were read from labeled lines.
type LabelHits struct {
	Name   bool
	Role   bool
	Period bool
}

// ParseIdentityLines reads the three labeled lines from an extraction answer.
// A label that is absent, blank or "未知" is reported as a miss and left Unknown.
func ParseIdentityLines(raw string) (domain.ExtractedIdentity, LabelHits) {
	id := domain.UnknownIdentity()
	var hits LabelHits
	id.Name, hits.Name = labeled(nameLine, raw)
	id.Role, hits.Role = labeled(roleLine, raw)
	id.Period, hits.Period = labeled(periodLine, raw)
	return id, hits
}

func labeled(re *regexp.Regexp, raw string) (string, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return domain.Unknown, false
	}
	v := strings.TrimSpace(m[1])
	if v == "" || v == domain.Unknown {
		return domain.Unknown, false
	}
	return v, true
}
