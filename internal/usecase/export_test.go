package usecase_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase"
)

func TestExportService_ScoringWorkbook(t *testing.T) {
	t.Parallel()

	b, err := usecase.NewExportService().ScoringWorkbook(usecase.ScoringSheet{
		EmployeeName: "张伟",
		Position:     "高级工程师",
		Quarter:      "2025年第三季度",
		Result: domain.ScoringResult{
			CoreStrengths:       "执行力强",
			AreasForDevelopment: "战略思维",
			ScoringSuggestions: []domain.ScoringSuggestion{
				{Ability: "技术掌握与应用", Score: 4, Basis: "交付稳定", Suggestion: "扩大影响"},
				{Ability: "项目管理能力", Score: 3},
			},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{usecase.ScoringSheetName, usecase.SummarySheetName}, f.GetSheetList())

	rows, err := f.GetRows(usecase.ScoringSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"能力项", "建议评分", "评分依据", "提升建议"}, rows[0])
	assert.Equal(t, []string{"技术掌握与应用", "4", "交付稳定", "扩大影响"}, rows[1])
	assert.Equal(t, "项目管理能力", rows[2][0])
	assert.Equal(t, "3", rows[2][1])

	summary, err := f.GetRows(usecase.SummarySheetName)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, []string{"员工", "张伟"}, summary[0])
	assert.Equal(t, []string{"待发展领域", "战略思维"}, summary[4])
}

func TestExportService_EmptyResult(t *testing.T) {
	t.Parallel()

	b, err := usecase.NewExportService().ScoringWorkbook(usecase.ScoringSheet{})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(usecase.ScoringSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
