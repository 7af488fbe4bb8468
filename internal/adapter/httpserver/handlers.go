package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase"
)

// Services are the usecases reachable over HTTP.
type Services struct {
	Documents   usecase.DocumentService
	Consistency usecase.ConsistencyService
	Scoring     usecase.ScoringService
	Diagnosis   usecase.DiagnosisService
	Cohort      usecase.CohortService
	Export      usecase.ExportService
	Probe       usecase.ConfigProbe
}

// Server aggregates handlers dependencies.
type Server struct {
	Cfg config.Config
	Services
	TikaCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, svc Services, tikaCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Services: svc, TikaCheck: tikaCheck}
}

// uploadTypes maps each accepted upload extension to the sniffed MIME types
// it may carry. Office files may sniff as plain zip.
var uploadTypes = map[string][]string{
	".pptx": {"application/vnd.openxmlformats-officedocument.presentationml.presentation", "application/zip"},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	".pdf":  {"application/pdf"},
	".txt":  {"text/plain"},
	".yaml": {"text/plain"},
	".yml":  {"text/plain"},
}

func allowedExt(name string) bool {
	_, ok := uploadTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// allowedMIMEFor walks the detected type and its parents looking for one of
// the types accepted for filename's extension.
func allowedMIMEFor(m *mimetype.MIME, filename string) bool {
	want := uploadTypes[strings.ToLower(filepath.Ext(filename))]
	for t := m; t != nil; t = t.Parent() {
		for _, w := range want {
			if t.Is(w) {
				return true
			}
		}
	}
	return false
}

// safeName keeps letters, digits, CJK and ._- from a client file name.
func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// UploadHandler stores one multipart file under the upload directory as
// <uuid>_<name> and returns its path for the parse endpoints.
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, r, err, map[string]any{"max_mb": s.Cfg.MaxUploadMB})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: file required", domain.ErrInvalidArgument), map[string]string{"field": "file"})
			return
		}
		defer func() { _ = file.Close() }()
		if header.Filename == "" {
			writeError(w, r, fmt.Errorf("%w: no selected file", domain.ErrInvalidArgument), map[string]string{"field": "file"})
			return
		}
		if !allowedExt(header.Filename) {
			writeError(w, r, fmt.Errorf("%w: file type not allowed", domain.ErrUnsupportedFormat), map[string]any{"filename": header.Filename})
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if int64(len(data)) > maxBytes {
			writeError(w, r, &http.MaxBytesError{Limit: maxBytes}, map[string]any{"max_mb": s.Cfg.MaxUploadMB})
			return
		}
		mt := mimetype.Detect(data)
		if !allowedMIMEFor(mt, header.Filename) {
			writeError(w, r, fmt.Errorf("%w: content does not match extension", domain.ErrUnsupportedFormat),
				map[string]any{"mime": mt.String(), "filename": header.Filename})
			return
		}

		stored := uuid.NewString() + "_" + safeName(header.Filename)
		if err := os.MkdirAll(s.Cfg.UploadDir, 0o750); err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.Upload: %w", err), nil)
			return
		}
		path := filepath.Join(s.Cfg.UploadDir, stored)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.Upload: %w", err), nil)
			return
		}
		LoggerFrom(r).Info("file uploaded",
			slog.String("filename", stored),
			slog.String("mime", mt.String()),
			slog.Int("bytes", len(data)))
		writeJSON(w, http.StatusOK, map[string]string{"filename": stored, "file_path": filepath.ToSlash(path)})
	}
}

// ParseDocumentHandler returns the text of an uploaded report.
func (s *Server) ParseDocumentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req parseDocumentRequest
		if details, err := decodeJSON(w, r, 1<<20, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		text, err := s.Documents.ParseDocument(r.Context(), req.DocPath)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"doc_text": text})
	}
}

// ParseScoreHandler returns the requirement lines of an uploaded rubric.
func (s *Server) ParseScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req parseScoreRequest
		if details, err := decodeJSON(w, r, 1<<20, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		items, err := s.Documents.ParseRubric(r.Context(), req.ScorePath)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"score_items": items})
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler probes Tika. A missing API key does not fail readiness since
// every analysis still answers through the rule-based path.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 1)
		if s.TikaCheck != nil {
			if err := s.TikaCheck(ctx); err != nil {
				checks = append(checks, check{Name: "tika", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "tika", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks, "llm_configured": s.Cfg.LLMConfigured()})
	}
}
