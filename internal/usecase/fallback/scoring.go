package fallback

import "github.com/north-leaf-W/Work-report-agent-system/internal/domain"

// Scoring returns the canned scoring result. It does not inspect the report.
func Scoring() domain.ScoringResult {
	return domain.ScoringResult{
		CoreStrengths:       "这是一个备用的核心优势分析。在报告中，您展现了出色的项目执行能力和团队沟通技巧。",
		AreasForDevelopment: "这是一个备用的待发展领域分析。建议在战略规划和跨部门协作方面投入更多精力。",
		ScoringSuggestions: []domain.ScoringSuggestion{
			{
				Ability:    "技术掌握与应用",
				Score:      4,
				Basis:      "备用依据：报告中提到了您在XX项目中成功应用了新技术，解决了关键问题。",
				Suggestion: "备用建议：持续学习前沿技术，并尝试在团队内部进行分享，扩大技术影响力。",
			},
			{
				Ability:    "团队协作与沟通",
				Score:      5,
				Basis:      "备用依据：报告中多次提到您与团队成员紧密合作，共同完成了挑战性任务。",
				Suggestion: "备用建议：您的沟通协作能力已经很强，可以尝试承担更复杂的跨团队沟通角色。",
			},
			{
				Ability:    "业务理解与贡献",
				Score:      3,
				Basis:      "备用依据：报告中对业务的理解较为到位，但对业务的贡献描述不够具体。",
				Suggestion: "备用建议：在未来的报告中，多使用可量化的数据来展示您对业务的具体贡献。",
			},
		},
	}
}
