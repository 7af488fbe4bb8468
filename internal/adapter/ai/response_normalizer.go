// Package ai turns raw LLM output into parsed JSON and schema-complete results.
package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/pkg/textx"
)

// ResponseNormalizer strips code fences from model output and checks that the
// remainder is syntactically valid JSON. Field types are not validated here.
type ResponseNormalizer struct{}

// NewResponseNormalizer creates a new response normalizer.
func NewResponseNormalizer() *ResponseNormalizer {
	return &ResponseNormalizer{}
}

// Parsed is a syntactically valid JSON document produced by the model.
type Parsed struct {
	Cleaned string
	root    gjson.Result
}

// Get returns the value at a gjson path. Absent paths yield a zero Result.
func (p Parsed) Get(path string) gjson.Result { return p.root.Get(path) }

// Normalize strips fences and parses raw. On invalid JSON, or JSON whose
// top-level value is not an object, it returns a *domain.ParseError carrying
// the failing position and a bounded excerpt of raw.
func (rn *ResponseNormalizer) Normalize(raw string) (Parsed, error) {
	cleaned := rn.removeMarkdownBlocks(raw)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return Parsed{}, newParseError(raw, cleaned, err)
	}
	root := gjson.Parse(cleaned)
	if !root.IsObject() {
		return Parsed{}, newParseError(raw, cleaned, errNotObject)
	}
	return Parsed{Cleaned: cleaned, root: root}, nil
}

// errNotObject rejects valid JSON whose top-level value cannot hold a result.
var errNotObject = errors.New("top-level JSON value is not an object")

// removeMarkdownBlocks strips a leading ```json or ``` fence and a trailing
// ``` fence. Only the very start and end of the trimmed text are considered.
func (rn *ResponseNormalizer) removeMarkdownBlocks(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

func newParseError(raw, cleaned string, err error) *domain.ParseError {
	excerpt, truncated := textx.Truncate(raw, domain.MaxExcerptRunes)
	pe := &domain.ParseError{
		Line:      1,
		Column:    1,
		Message:   err.Error(),
		Excerpt:   excerpt,
		Truncated: truncated,
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		pe.Line, pe.Column = position(cleaned, int(se.Offset))
	}
	return pe
}

// position converts a byte offset reported by encoding/json into a 1-based
// line and rune column. The offset points just past the offending byte.
func position(s string, offset int) (line, col int) {
	if offset > 0 {
		offset--
	}
	if offset > len(s) {
		offset = len(s)
	}
	head := s[:offset]
	line = strings.Count(head, "\n") + 1
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}
	return line, utf8.RuneCountInString(head) + 1
}
