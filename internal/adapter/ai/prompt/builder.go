// Package prompt renders the fixed analysis templates sent to the LLM.
package prompt

import (
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/pkg/textx"
)

// MetadataPrefixRunes bounds the document text embedded in extraction prompts.
const MetadataPrefixRunes = 2000

// ScoringSystemMessage opens every scoring conversation.
const ScoringSystemMessage = "You are a helpful assistant."

// Builder renders prompts. It performs no I/O and never fails.
type Builder struct{}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder { return &Builder{} }

// Build renders the prompt for req.Task. Unknown tasks render the consistency template.
func (b *Builder) Build(req domain.AnalysisRequest) domain.Prompt {
	switch req.Task {
	case domain.TaskScoring:
		rubric := req.RubricText
		if strings.TrimSpace(rubric) == "" {
			rubric = DefaultScoringRubric(req.Hints.Name, req.Hints.Role, req.Hints.Period)
		}
		return b.Scoring(req.DocumentText, rubric)
	case domain.TaskDiagnosis:
		return b.Diagnosis(req.Hints.Name, req.Hints.Role, req.Hints.Period, req.DocumentText)
	case domain.TaskMetadata:
		return b.Metadata(req.Filename, req.DocumentText)
	default:
		return b.Consistency(req.DocumentText, req.RubricItems)
	}
}

// Consistency renders the rubric-vs-document check. Blank rubric items are dropped.
func (b *Builder) Consistency(documentText string, rubricItems []string) domain.Prompt {
	return domain.Prompt{Text: fill(consistencyTemplate,
		"{rubric_items}", BulletList(rubricItems),
		"{document_text}", documentText,
	)}
}

// Scoring renders the scoring conversation in message mode.
func (b *Builder) Scoring(documentText, rubricText string) domain.Prompt {
	user := fill(scoringTemplate,
		"{document_text}", documentText,
		"{rubric_text}", rubricText,
	)
	return domain.Prompt{Messages: []domain.Message{
		{Role: "system", Content: ScoringSystemMessage},
		{Role: "user", Content: user},
	}}
}

// Diagnosis renders the six-dimension diagnosis template.
func (b *Builder) Diagnosis(name, abilityModel, quarter, documentText string) domain.Prompt {
	return domain.Prompt{Text: fill(diagnosisTemplate,
		"{employee_name}", name,
		"{ability_model}", abilityModel,
		"{quarter}", quarter,
		"{document_text}", documentText,
	)}
}

// Metadata renders the identity extraction template over the first
// MetadataPrefixRunes characters of the document.
func (b *Builder) Metadata(filename, documentText string) domain.Prompt {
	return domain.Prompt{Text: fill(metadataTemplate,
		"{filename}", filename,
		"{document_text}", textx.Prefix(documentText, MetadataPrefixRunes),
	)}
}

// DefaultScoringRubric describes the five default scoring dimensions for an employee.
func DefaultScoringRubric(name, abilityModel, quarter string) string {
	return "员工：" + name + "\n职位：" + abilityModel + "\n季度：" + quarter +
		"\n\n能力评估维度：\n1. 技术掌握与应用\n2. 项目管理能力\n3. 团队协作与沟通\n4. 业务理解与贡献\n5. 学习能力与创新思维"
}

// BulletList renders non-blank items as "- item" lines.
func BulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}

func fill(tmpl string, oldnew ...string) string {
	return strings.NewReplacer(oldnew...).Replace(tmpl)
}
