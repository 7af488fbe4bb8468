// Package rubric loads scoring-rubric items from spreadsheets and YAML files.
package rubric

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// Loader implements domain.RubricLoader.
type Loader struct{}

// NewLoader creates a rubric loader.
func NewLoader() *Loader { return &Loader{} }

// Load dispatches on the file extension.
func (l *Loader) Load(_ context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("%w: rubric must be .xlsx, .yaml or .yml", domain.ErrUnsupportedFormat)
	}
}

// loadXLSX reads the active sheet. The first row is a header; each later row
// with any non-empty cell becomes one item of its non-empty cells joined by
// a space.
func loadXLSX(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=rubric.loadXLSX: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("op=rubric.loadXLSX: %w", err)
	}
	items := []string{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		cells := make([]string, 0, len(row))
		for _, c := range row {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			items = append(items, strings.Join(cells, " "))
		}
	}
	return items, nil
}

// yamlRubric accepts either a bare list of strings or an object with an
// "items" list.
type yamlRubric struct {
	Items []string `yaml:"items"`
}

func loadYAML(path string) ([]string, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("op=rubric.loadYAML: %w", err)
	}
	var list []string
	if err := yaml.Unmarshal(b, &list); err != nil {
		var doc yamlRubric
		if err2 := yaml.Unmarshal(b, &doc); err2 != nil {
			return nil, fmt.Errorf("%w: invalid rubric yaml: %v", domain.ErrInvalidArgument, err2)
		}
		list = doc.Items
	}
	items := make([]string, 0, len(list))
	for _, it := range list {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	return items, nil
}
