package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

func TestBuilder_Consistency(t *testing.T) {
	t.Parallel()
	b := NewBuilder()

	p := b.Consistency("本季度完成三个项目", []string{"项目成果需量化", "  ", "", "需体现团队协作"})
	require.False(t, p.IsMessages())
	assert.Contains(t, p.Text, "- 项目成果需量化\n- 需体现团队协作")
	assert.NotContains(t, p.Text, "-   ")
	assert.Contains(t, p.Text, "[PPT内容]: \n本季度完成三个项目")
	assert.Contains(t, p.Text, `"missing_items"`)
	assert.Contains(t, p.Text, "```json")
}

func TestBuilder_Scoring_MessageMode(t *testing.T) {
	t.Parallel()
	p := NewBuilder().Scoring("报告正文", "评分体系正文")
	require.True(t, p.IsMessages())
	require.Len(t, p.Messages, 2)
	assert.Equal(t, "system", p.Messages[0].Role)
	assert.Equal(t, ScoringSystemMessage, p.Messages[0].Content)
	assert.Equal(t, "user", p.Messages[1].Role)
	assert.Contains(t, p.Messages[1].Content, "**述职报告内容:**\n报告正文")
	assert.Contains(t, p.Messages[1].Content, "**评分体系:**\n评分体系正文")
	assert.Contains(t, p.Messages[1].Content, "系统性能提升40%")
}

func TestBuilder_Build_ScoringDefaultRubric(t *testing.T) {
	t.Parallel()
	p := NewBuilder().Build(domain.AnalysisRequest{
		Task:         domain.TaskScoring,
		DocumentText: "x",
		Hints:        domain.IdentityHints{Name: "张伟", Role: "P6", Period: "2025年第三季度"},
	})
	require.True(t, p.IsMessages())
	assert.Contains(t, p.Messages[1].Content, "员工：张伟\n职位：P6\n季度：2025年第三季度")
	assert.Contains(t, p.Messages[1].Content, "5. 学习能力与创新思维")
}

func TestBuilder_Diagnosis(t *testing.T) {
	t.Parallel()
	p := NewBuilder().Diagnosis("张伟", "技术序列P6", "2025年第三季度", "正文")
	assert.Contains(t, p.Text, "**员工姓名**: 张伟")
	assert.Contains(t, p.Text, `"name": "张伟"`)
	assert.Contains(t, p.Text, `"position": "技术序列P6"`)
	assert.Contains(t, p.Text, `"quarter": "2025年第三季度"`)
	assert.Contains(t, p.Text, "strategic_thinking")
	assert.NotContains(t, p.Text, "{employee_name}")
}

func TestBuilder_Metadata_BoundsPrefix(t *testing.T) {
	t.Parallel()
	doc := strings.Repeat("甲", MetadataPrefixRunes) + "尾巴不应出现"
	p := NewBuilder().Metadata("2025Q3述职.pptx", doc)
	assert.Contains(t, p.Text, "2025Q3述职.pptx")
	assert.NotContains(t, p.Text, "尾巴")
	assert.Contains(t, p.Text, "员工姓名：[姓名]")
	assert.Equal(t, MetadataPrefixRunes, strings.Count(p.Text, "甲"))
}

func TestBuilder_EmptyInputsNeverFail(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	for _, task := range []domain.TaskType{domain.TaskConsistency, domain.TaskScoring, domain.TaskDiagnosis, domain.TaskMetadata, "unknown"} {
		p := b.Build(domain.AnalysisRequest{Task: task})
		assert.NotEmpty(t, p.Content(), "task %s", task)
	}
}

func TestBuilder_PlaceholdersNotReexpanded(t *testing.T) {
	t.Parallel()
	p := NewBuilder().Diagnosis("{quarter}", "m", "Q", "{employee_name}")
	assert.Contains(t, p.Text, "**员工姓名**: {quarter}")
	assert.Contains(t, p.Text, "**述职报告内容**:\n{employee_name}")
}

func TestBulletList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", BulletList(nil))
	assert.Equal(t, "- a\n- b", BulletList([]string{"a", " ", "b"}))
}
