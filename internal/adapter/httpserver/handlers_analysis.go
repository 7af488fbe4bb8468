package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/internal/usecase"
)

// scoringPayload is the scoring block exchanged with the web client. It is
// both the scoring answer and the input of the spreadsheet export.
type scoringPayload struct {
	EmployeeName        string                     `json:"employee_name"`
	Position            string                     `json:"position"`
	Quarter             string                     `json:"quarter"`
	CoreStrengths       string                     `json:"core_strengths"`
	AreasForDevelopment string                     `json:"areas_for_development"`
	ScoringSuggestions  []domain.ScoringSuggestion `json:"scoring_suggestions" validate:"dive"`
	Abilities           []string                   `json:"abilities"`
}

type verifyResponse struct {
	Success      bool     `json:"success"`
	MissingItems []string `json:"missing_items"`
	Suggestions  string   `json:"suggestions"`
	Mode         string   `json:"mode"`
	Note         string   `json:"note,omitempty"`
}

type scoringResponse struct {
	Success bool           `json:"success"`
	Scoring scoringPayload `json:"scoring"`
	Note    string         `json:"note,omitempty"`
}

type diagnosisResponse struct {
	Success       bool                     `json:"success"`
	Diagnosis     domain.DiagnosisResult   `json:"diagnosis"`
	ExtractedInfo domain.ExtractedIdentity `json:"extracted_info"`
	Note          string                   `json:"note,omitempty"`
}

func (s *Server) jsonLimit() int64 { return s.Cfg.MaxUploadMB * 1024 * 1024 }

// VerifyHandler checks a report against rubric items.
func (s *Server) VerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req verifyRequest
		if details, err := decodeJSON(w, r, s.jsonLimit(), &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		out := s.Consistency.Check(r.Context(), req.text(), req.ScoreItems)
		missing := out.Value.MissingItems
		if missing == nil {
			missing = []string{}
		}
		writeJSON(w, http.StatusOK, verifyResponse{
			Success:      true,
			MissingItems: missing,
			Suggestions:  out.Value.Suggestions,
			Mode:         string(out.Source),
			Note:         out.Note(),
		})
	}
}

// ScoringSuggestionHandler accepts either report_text plus scoring_table_text,
// or identity hints plus doc_path, in which case the five-dimension default
// rubric is used.
func (s *Server) ScoringSuggestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req scoringRequest
		if details, err := decodeJSON(w, r, s.jsonLimit(), &req); err != nil {
			writeError(w, r, err, details)
			return
		}

		in := usecase.ScoringInput{
			Hints: domain.IdentityHints{Name: req.EmployeeName, Role: req.AbilityModel, Period: req.Quarter},
		}
		if req.legacy() {
			if req.ReportText == "" || req.ScoringTableText == "" {
				writeError(w, r, fmt.Errorf("%w: missing report_text or scoring_table_text", domain.ErrInvalidArgument), nil)
				return
			}
			in.ReportText, in.RubricText = req.ReportText, req.ScoringTableText
		} else {
			if req.DocPath == "" {
				writeError(w, r, fmt.Errorf("%w: missing doc_path", domain.ErrInvalidArgument), map[string]string{"doc_path": "required"})
				return
			}
			text, err := s.Documents.ParseDocument(r.Context(), req.DocPath)
			if err != nil {
				writeError(w, r, err, nil)
				return
			}
			in.ReportText = text
		}

		out := s.Scoring.Suggest(r.Context(), in)
		writeJSON(w, http.StatusOK, scoringResponse{
			Success: true,
			Scoring: scoringPayload{
				EmployeeName:        orDefault(req.EmployeeName, domain.DefaultEmployeeName),
				Position:            orDefault(req.AbilityModel, domain.DefaultPosition),
				Quarter:             orDefault(req.Quarter, domain.DefaultQuarter),
				CoreStrengths:       out.Value.CoreStrengths,
				AreasForDevelopment: out.Value.AreasForDevelopment,
				ScoringSuggestions:  out.Value.ScoringSuggestions,
				Abilities:           out.Value.Abilities(),
			},
			Note: out.Note(),
		})
	}
}

// DiagnosisHandler produces an individual diagnosis for an uploaded report.
func (s *Server) DiagnosisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req diagnosisRequest
		if details, err := decodeJSON(w, r, 1<<20, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		text, err := s.Documents.ParseDocument(r.Context(), req.DocPath)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		rep := s.Diagnosis.Diagnose(r.Context(), usecase.DiagnosisInput{
			DocumentText: text,
			Filename:     filepath.Base(filepath.FromSlash(req.DocPath)),
			Hints:        domain.IdentityHints{Name: req.EmployeeName, Role: req.AbilityModel, Period: req.Quarter},
		})
		writeJSON(w, http.StatusOK, diagnosisResponse{
			Success:       true,
			Diagnosis:     rep.Value,
			ExtractedInfo: rep.Extracted,
			Note:          rep.Note(),
		})
	}
}

// CohortHandler returns the cohort report.
func (s *Server) CohortHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":         true,
			"cohort_analysis": s.Cohort.Analyze(r.Context()),
		})
	}
}

// xlsxContentType is the media type of spreadsheet downloads.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportScoringHandler renders a scoring block as an xlsx download.
func (s *Server) ExportScoringHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportScoringRequest
		if details, err := decodeJSON(w, r, 1<<20, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		sc := req.Scoring
		b, err := s.Export.ScoringWorkbook(usecase.ScoringSheet{
			EmployeeName: orDefault(sc.EmployeeName, domain.DefaultEmployeeName),
			Position:     orDefault(sc.Position, domain.DefaultPosition),
			Quarter:      orDefault(sc.Quarter, domain.DefaultQuarter),
			Result: domain.ScoringResult{
				CoreStrengths:       sc.CoreStrengths,
				AreasForDevelopment: sc.AreasForDevelopment,
				ScoringSuggestions:  sc.ScoringSuggestions,
			},
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		name := "评分建议_" + safeName(orDefault(sc.EmployeeName, domain.DefaultEmployeeName)) + ".xlsx"
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="scoring.xlsx"; filename*=UTF-8''%s`, url.PathEscape(name)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
