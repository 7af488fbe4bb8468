package usecase

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// Sheet names of the scoring workbook.
const (
	ScoringSheetName = "评分建议"
	SummarySheetName = "概要"
)

// ScoringSheet is a scoring result with the identity it was produced for.
type ScoringSheet struct {
	EmployeeName string
	Position     string
	Quarter      string
	Result       domain.ScoringResult
}

// ExportService renders results into downloadable files.
type ExportService struct{}

// NewExportService constructs an ExportService.
func NewExportService() ExportService { return ExportService{} }

// ScoringWorkbook writes s as an xlsx file with a per-ability sheet and a summary sheet.
func (ExportService) ScoringWorkbook(s ScoringSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ScoringSheetName); err != nil {
		return nil, fmt.Errorf("op=usecase.ScoringWorkbook: %w", err)
	}
	if _, err := f.NewSheet(SummarySheetName); err != nil {
		return nil, fmt.Errorf("op=usecase.ScoringWorkbook: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ScoringWorkbook: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ScoringWorkbook: %w", err)
	}

	rows := [][]any{{"能力项", "建议评分", "评分依据", "提升建议"}}
	for _, sg := range s.Result.ScoringSuggestions {
		rows = append(rows, []any{sg.Ability, sg.Score, sg.Basis, sg.Suggestion})
	}
	if err := writeRows(f, ScoringSheetName, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(ScoringSheetName, "A1", "D1", header)
	if len(rows) > 1 {
		_ = f.SetCellStyle(ScoringSheetName, "A2", fmt.Sprintf("D%d", len(rows)), wrap)
	}
	_ = f.SetColWidth(ScoringSheetName, "A", "A", 20)
	_ = f.SetColWidth(ScoringSheetName, "B", "B", 10)
	_ = f.SetColWidth(ScoringSheetName, "C", "D", 60)

	summary := [][]any{
		{"员工", s.EmployeeName},
		{"职位", s.Position},
		{"季度", s.Quarter},
		{"核心优势", s.Result.CoreStrengths},
		{"待发展领域", s.Result.AreasForDevelopment},
	}
	if err := writeRows(f, SummarySheetName, summary); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(SummarySheetName, "A1", "A5", header)
	_ = f.SetCellStyle(SummarySheetName, "B1", "B5", wrap)
	_ = f.SetColWidth(SummarySheetName, "A", "A", 14)
	_ = f.SetColWidth(SummarySheetName, "B", "B", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ScoringWorkbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("op=usecase.writeRows: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("op=usecase.writeRows: %w", err)
		}
	}
	return nil
}
