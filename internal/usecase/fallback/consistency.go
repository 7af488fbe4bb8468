// Package fallback produces deterministic rule-based results used when the
// LLM path fails. Every function here is pure: identical inputs always give
// byte-identical outputs.
package fallback

import (
	"errors"
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// category is one content dimension checked by keyword presence.
type category struct {
	Name     string
	Keywords []string
	Problem  string
	Remedy   string
}

// categories are evaluated in this order; the order fixes the order of
// missing items and suggestion entries.
var categories = []category{
	{
		Name:     "工作成果展示",
		Keywords: []string{"成果", "业绩", "结果", "产出", "完成"},
		Problem:  "工作成果数据不够具体",
		Remedy:   "补充项目数量、质量指标等具体数据和案例",
	},
	{
		Name:     "团队协作能力",
		Keywords: []string{"协作", "团队", "合作", "配合", "沟通"},
		Problem:  "团队协作案例缺失",
		Remedy:   "添加跨部门协作具体案例和个人贡献描述",
	},
	{
		Name:     "能力发展体现",
		Keywords: []string{"学习", "成长", "提升", "发展", "进步"},
		Problem:  "能力成长过程描述不足",
		Remedy:   "补充学习投入、技能提升路径及其在工作中的应用",
	},
	{
		Name:     "业务影响说明",
		Keywords: []string{"业务", "价值", "效益", "收益", "贡献"},
		Problem:  "业务价值体现不足",
		Remedy:   "量化工作对业务的具体贡献和价值影响",
	},
	{
		Name:     "创新思维展现",
		Keywords: []string{"创新", "改进", "优化", "新方法", "突破"},
		Problem:  "创新改进举措未体现",
		Remedy:   "列举流程优化、方法改进等创新实践及其效果",
	},
}

// MissingSuffix is appended to a category name to form its missing item.
const MissingSuffix = "内容不充分"

// Consistency checks doc against the five keyword categories. A category
// with no keyword hit becomes a missing item and a suggestion entry.
//
// cause is the failure that routed here. A nil cause or one wrapping
// domain.ErrNotConfigured renders the basic-mode banner; any other cause
// renders the backup-mode banner, and a *domain.ParseError adds its details.
func Consistency(doc string, cause error) domain.ConsistencyResult {
	missing := []string{}
	var gaps []Gap
	for _, c := range categories {
		if containsAny(doc, c.Keywords) {
			continue
		}
		missing = append(missing, c.Name+MissingSuffix)
		gaps = append(gaps, Gap{Problem: c.Problem, Remedy: c.Remedy})
	}

	block := SuggestionsBlock{Gaps: gaps}
	if cause != nil && !errors.Is(cause, domain.ErrNotConfigured) {
		block.Backup = true
		var pe *domain.ParseError
		if errors.As(cause, &pe) {
			block.Parse = pe
		}
	}
	return domain.ConsistencyResult{MissingItems: missing, Suggestions: block.HTML()}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
