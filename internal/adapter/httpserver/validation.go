package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		// report json field names in error details
		vld.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return vld
}

type parseDocumentRequest struct {
	DocPath string `json:"doc_path" validate:"required"`
}

type parseScoreRequest struct {
	ScorePath string `json:"score_path" validate:"required"`
}

type verifyRequest struct {
	DocText    string   `json:"doc_text"`
	PPTText    string   `json:"ppt_text"`
	ScoreItems []string `json:"score_items" validate:"max=500,dive,max=2000"`
}

// text prefers doc_text and accepts the older ppt_text field.
func (v verifyRequest) text() string {
	if v.DocText != "" {
		return v.DocText
	}
	return v.PPTText
}

type scoringRequest struct {
	ReportText       string `json:"report_text"`
	ScoringTableText string `json:"scoring_table_text"`
	EmployeeName     string `json:"employee_name" validate:"max=100"`
	AbilityModel     string `json:"ability_model" validate:"max=200"`
	Quarter          string `json:"quarter" validate:"max=100"`
	DocPath          string `json:"doc_path"`
}

// legacy reports whether the caller sent the report and rubric as text.
func (s scoringRequest) legacy() bool {
	return s.ReportText != "" || s.ScoringTableText != ""
}

type diagnosisRequest struct {
	EmployeeName string `json:"employee_name" validate:"max=100"`
	AbilityModel string `json:"ability_model" validate:"max=200"`
	Quarter      string `json:"quarter" validate:"max=100"`
	DocPath      string `json:"doc_path" validate:"required"`
}

type exportScoringRequest struct {
	Scoring scoringPayload `json:"scoring"`
}

type validateKeyRequest struct {
	APIKey string `json:"api_key" validate:"required,max=512"`
}

// decodeJSON reads a JSON body of at most maxBytes into dst and validates it.
// Failures wrap domain.ErrInvalidArgument; field errors are returned as details.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument)
	}
	if err := getValidator().Struct(dst); err != nil {
		details := map[string]string{}
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				details[fe.Field()] = fe.Tag()
			}
		}
		return details, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument)
	}
	return nil, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
