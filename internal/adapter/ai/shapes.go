package ai

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// Defaults applied when the model omits or mistypes a numeric field.
const (
	DefaultScore        = 3
	DefaultAbilityScore = 3.0
	MinScore            = 1
	MaxScore            = 5
)

// DecodeConsistency reads a consistency result, defaulting absent fields.
func DecodeConsistency(p Parsed) domain.ConsistencyResult {
	return domain.ConsistencyResult{
		MissingItems: stringList(p.Get("missing_items")),
		Suggestions:  stringField(p.Get("suggestions")),
	}
}

// DecodeScoring reads a scoring result. Scores are rounded and clamped to
// 1..5; a missing score becomes DefaultScore.
func DecodeScoring(p Parsed) domain.ScoringResult {
	out := domain.ScoringResult{
		CoreStrengths:       stringField(p.Get("core_strengths")),
		AreasForDevelopment: stringField(p.Get("areas_for_development")),
		ScoringSuggestions:  []domain.ScoringSuggestion{},
	}
	p.Get("scoring_suggestions").ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		score := DefaultScore
		if f, ok := number(item.Get("score")); ok {
			score = int(clamp(math.Round(f), MinScore, MaxScore))
		}
		out.ScoringSuggestions = append(out.ScoringSuggestions, domain.ScoringSuggestion{
			Ability:    stringField(item.Get("ability")),
			Score:      score,
			Basis:      stringField(item.Get("basis")),
			Suggestion: stringField(item.Get("suggestion")),
		})
		return true
	})
	return out
}

// DecodeDiagnosis reads a diagnosis result. Ability scores are clamped to
// [1,5]; a missing score becomes DefaultAbilityScore.
func DecodeDiagnosis(p Parsed) domain.DiagnosisResult {
	ab := p.Get("abilities")
	score := func(key string) float64 {
		if f, ok := number(ab.Get(key)); ok {
			return clamp(f, MinScore, MaxScore)
		}
		return DefaultAbilityScore
	}
	info := p.Get("employee_info")
	return domain.DiagnosisResult{
		EmployeeInfo: domain.EmployeeInfo{
			Name:     stringField(info.Get("name")),
			Position: stringField(info.Get("position")),
			Quarter:  stringField(info.Get("quarter")),
		},
		Abilities: domain.Abilities{
			TechnicalInnovation: score("technical_innovation"),
			BusinessImpact:      score("business_impact"),
			Teamwork:            score("teamwork"),
			ProjectManagement:   score("project_management"),
			CostAwareness:       score("cost_awareness"),
			StrategicThinking:   score("strategic_thinking"),
		},
		Strengths:          stringList(p.Get("strengths")),
		Weaknesses:         stringList(p.Get("weaknesses")),
		GrowthSuggestions:  stringList(p.Get("growth_suggestions")),
		ManagerSuggestions: stringList(p.Get("manager_suggestions")),
	}
}

func stringField(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return ""
}

// stringList keeps string and numeric scalars; objects, arrays and nulls are dropped.
func stringList(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		switch v.Type {
		case gjson.String:
			out = append(out, v.Str)
		case gjson.Number:
			out = append(out, v.Raw)
		}
		return true
	})
	return out
}

func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}
