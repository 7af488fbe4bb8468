package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/pkg/textx"
)

// Accepted extensions for reports and rubrics.
var (
	DocumentExtensions = []string{".pptx", ".pdf", ".txt"}
	RubricExtensions   = []string{".xlsx", ".yaml", ".yml"}
)

// DocumentService resolves uploaded files and turns them into text or rubric items.
// Paths are confined to the upload directory.
type DocumentService struct {
	UploadDir string
	Extractor domain.TextExtractor
	Rubrics   domain.RubricLoader
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(uploadDir string, ex domain.TextExtractor, rl domain.RubricLoader) DocumentService {
	return DocumentService{UploadDir: uploadDir, Extractor: ex, Rubrics: rl}
}

// ParseDocument returns the text of a report. Validation failures are
// reported before any extraction happens.
func (s DocumentService) ParseDocument(ctx context.Context, path string) (string, error) {
	full, err := s.resolve(path, DocumentExtensions)
	if err != nil {
		return "", err
	}
	var text string
	if strings.EqualFold(filepath.Ext(full), ".txt") {
		b, err := os.ReadFile(full)
		if err != nil {
			return "", fmt.Errorf("op=usecase.ParseDocument: %w", err)
		}
		text = string(b)
	} else {
		text, err = s.Extractor.ExtractPath(ctx, filepath.Base(full), full)
		if err != nil {
			return "", fmt.Errorf("op=usecase.ParseDocument: %w", err)
		}
	}
	text = textx.SanitizeText(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text content found in document", domain.ErrInvalidArgument)
	}
	return text, nil
}

// ParseRubric returns the ordered requirement lines of a rubric file.
func (s DocumentService) ParseRubric(ctx context.Context, path string) ([]string, error) {
	full, err := s.resolve(path, RubricExtensions)
	if err != nil {
		return nil, err
	}
	items, err := s.Rubrics.Load(ctx, full)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ParseRubric: %w", err)
	}
	return items, nil
}

// resolve maps a client path onto the upload directory. Paths may be bare
// file names, or already carry the upload directory prefix.
func (s DocumentService) resolve(path string, exts []string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: path is required", domain.ErrInvalidArgument)
	}
	if !hasExt(path, exts) {
		return "", fmt.Errorf("%w: %s (allowed: %s)", domain.ErrUnsupportedFormat, filepath.Ext(path), strings.Join(exts, ", "))
	}

	root, err := filepath.Abs(s.UploadDir)
	if err != nil {
		return "", fmt.Errorf("op=usecase.resolve: %w", err)
	}
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(path, `\`, "/")))
	var full string
	switch {
	case filepath.IsAbs(clean):
		full = clean
	default:
		if abs, err := filepath.Abs(clean); err == nil && within(root, abs) {
			full = abs
		} else {
			full = filepath.Join(root, clean)
		}
	}
	if !within(root, full) {
		return "", fmt.Errorf("%w: path outside upload directory", domain.ErrInvalidArgument)
	}

	st, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: file not found: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("op=usecase.resolve: %w", err)
	}
	if st.IsDir() {
		return "", fmt.Errorf("%w: not a file: %s", domain.ErrInvalidArgument, path)
	}
	return full, nil
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
