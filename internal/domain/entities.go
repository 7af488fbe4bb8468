// Package domain holds the request-scoped value objects, error taxonomy and
// ports shared by the analysis services.
package domain

import (
	"context"
	"time"
)

// TaskType enumerates the analysis tasks handled by the LLM layer.
type TaskType string

const (
	TaskConsistency TaskType = "consistency"
	TaskScoring     TaskType = "scoring_suggestion"
	TaskDiagnosis   TaskType = "diagnosis"
	TaskMetadata    TaskType = "metadata_extraction"

	// TaskProbe is a minimal call that checks credentials.
	TaskProbe TaskType = "config_probe"
)

// Identity sentinels and caller-facing defaults.
const (
	Unknown             = "未知"
	DefaultEmployeeName = "未知员工"
	DefaultAbilityModel = "通用能力模型"
	DefaultQuarter      = "未知季度"
	DefaultPosition     = "未知职位"
)

// DegradedNote marks responses produced by the rule-based path.
const DegradedNote = "使用备用分析模式"

// IdentityHints are caller-supplied overrides. Empty fields mean "not supplied".
type IdentityHints struct {
	Name   string
	Role   string
	Period string
}

// AnalysisRequest is the input to prompt building and fallback analysis.
// RubricItems is used by consistency checks; RubricText by scoring.
type AnalysisRequest struct {
	Task         TaskType
	DocumentText string
	RubricItems  []string
	RubricText   string
	Hints        IdentityHints
	Filename     string
}

// ExtractedIdentity is the name/role/period triple derived from a document.
// Each field is either a concrete value or Unknown.
type ExtractedIdentity struct {
	Name   string `json:"name"`
	Role   string `json:"position"`
	Period string `json:"quarter"`
}

// UnknownIdentity returns an identity with every field set to Unknown.
func UnknownIdentity() ExtractedIdentity {
	return ExtractedIdentity{Name: Unknown, Role: Unknown, Period: Unknown}
}

// ConsistencyResult is the rubric consistency check outcome.
type ConsistencyResult struct {
	MissingItems []string `json:"missing_items"`
	Suggestions  string   `json:"suggestions"`
}

// ScoringSuggestion scores one ability on a 1..5 integer scale.
type ScoringSuggestion struct {
	Ability    string `json:"ability"`
	Score      int    `json:"score"`
	Basis      string `json:"basis"`
	Suggestion string `json:"suggestion"`
}

// ScoringResult is the per-ability scoring recommendation.
type ScoringResult struct {
	CoreStrengths       string              `json:"core_strengths"`
	AreasForDevelopment string              `json:"areas_for_development"`
	ScoringSuggestions  []ScoringSuggestion `json:"scoring_suggestions"`
}

// Abilities lists the ability names in scoring order.
func (r ScoringResult) Abilities() []string {
	out := make([]string, 0, len(r.ScoringSuggestions))
	for _, s := range r.ScoringSuggestions {
		out = append(out, s.Ability)
	}
	return out
}

// EmployeeInfo is the identity echo inside a diagnosis.
type EmployeeInfo struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Quarter  string `json:"quarter"`
}

// Abilities holds the six diagnosis dimensions, each within [1,5].
type Abilities struct {
	TechnicalInnovation float64 `json:"technical_innovation"`
	BusinessImpact      float64 `json:"business_impact"`
	Teamwork            float64 `json:"teamwork"`
	ProjectManagement   float64 `json:"project_management"`
	CostAwareness       float64 `json:"cost_awareness"`
	StrategicThinking   float64 `json:"strategic_thinking"`
}

// DiagnosisResult is the individual diagnosis report.
type DiagnosisResult struct {
	EmployeeInfo       EmployeeInfo `json:"employee_info"`
	Abilities          Abilities    `json:"abilities"`
	Strengths          []string     `json:"strengths"`
	Weaknesses         []string     `json:"weaknesses"`
	GrowthSuggestions  []string     `json:"growth_suggestions"`
	ManagerSuggestions []string     `json:"manager_suggestions"`
}

// ResultFormat selects how the generation service shapes its output.
type ResultFormat string

const (
	FormatText    ResultFormat = "text"
	FormatMessage ResultFormat = "message"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is either a single instruction string or a message list.
type Prompt struct {
	Text     string
	Messages []Message
}

// IsMessages reports whether the prompt is in message mode.
func (p Prompt) IsMessages() bool { return len(p.Messages) > 0 }

// Content flattens the prompt for logging and token estimates.
func (p Prompt) Content() string {
	if !p.IsMessages() {
		return p.Text
	}
	var n int
	for _, m := range p.Messages {
		n += len(m.Content) + 1
	}
	b := make([]byte, 0, n)
	for _, m := range p.Messages {
		b = append(b, m.Content...)
		b = append(b, '\n')
	}
	return string(b)
}

// LLMRequest is one call to the generation service.
type LLMRequest struct {
	Task         TaskType
	Prompt       Prompt
	Model        string
	ResultFormat ResultFormat
	MaxTokens    int
	Timeout      time.Duration
}

// LLMResponse carries the un-interpreted generated text.
type LLMResponse struct {
	Text      string
	Model     string
	RequestID string
}

// Ports

// LLMGateway sends one prompt to the generation service. It never retries;
// failures are *TransportError or *UpstreamError.
type LLMGateway interface {
	Call(ctx Context, req LLMRequest) (LLMResponse, error)
}

// TextExtractor (port)
// ExtractPath extracts text from a file at path with provided original filename.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// RubricLoader returns the ordered requirement lines of a rubric file.
type RubricLoader interface {
	Load(ctx Context, path string) ([]string, error)
}

// Context is an alias so adapters and usecases share one context type.
type Context = context.Context
