package fallback

import "github.com/north-leaf-W/Work-report-agent-system/internal/domain"

// Diagnosis returns fixed mid-range scores and canned lists, echoing the
// supplied identity. Each call returns fresh slices.
func Diagnosis(name, position, quarter string) domain.DiagnosisResult {
	return domain.DiagnosisResult{
		EmployeeInfo: domain.EmployeeInfo{Name: name, Position: position, Quarter: quarter},
		Abilities: domain.Abilities{
			TechnicalInnovation: 4.0,
			BusinessImpact:      3.5,
			Teamwork:            4.2,
			ProjectManagement:   3.8,
			CostAwareness:       3.2,
			StrategicThinking:   3.6,
		},
		Strengths: []string{
			"工作执行力强，能够按时完成分配的任务",
			"学习能力较好，能够快速掌握新的工作技能",
			"团队合作意识强，与同事关系融洽",
			"工作态度积极，责任心强",
		},
		Weaknesses: []string{
			"业务理解深度有待提升，需要更深入了解业务价值",
			"主动性需要加强，可以更积极地提出改进建议",
			"跨部门沟通协调能力需要进一步发展",
			"战略思维和全局观念需要培养",
		},
		GrowthSuggestions: []string{
			"主动参与业务讨论，深入理解业务需求和价值",
			"定期总结工作经验，形成最佳实践并分享给团队",
			"寻求跨部门合作机会，拓宽工作视野",
			"制定个人发展计划，设定明确的学习和成长目标",
			"参加相关培训课程，提升专业技能和软技能",
			"建立定期反思机制，持续改进工作方法和效率",
		},
		ManagerSuggestions: []string{
			"为员工提供更多业务培训和学习机会",
			"定期进行一对一沟通，了解员工发展需求",
			"给予员工更多挑战性任务，促进能力提升",
			"建立明确的职业发展路径和晋升标准",
			"提供及时的工作反馈和指导",
			"创造跨部门协作机会，帮助员工拓展视野",
		},
	}
}
