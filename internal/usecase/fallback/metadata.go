package fallback

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/pkg/textx"
)

// Scan windows, in runes, for each identity field.
const (
	QuarterScanRunes  = 500
	NameScanRunes     = 1500
	PositionScanRunes = 1500
)

// Rule is one pattern plus the function that turns its submatches into a
// value. Rules in a list are tried in order and the first hit wins.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(m []string) (string, bool)
}

// Apply runs rules over s and returns the first extracted value.
func Apply(rules []Rule, s string) (string, string, bool) {
	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if v, ok := r.Extract(m); ok {
			return v, r.Name, true
		}
	}
	return "", "", false
}

var quarterNames = map[string]string{
	"1": "一", "2": "二", "3": "三", "4": "四",
	"一": "一", "二": "二", "三": "三", "四": "四",
}

func formatQuarter(year, q string) (string, bool) {
	cn, ok := quarterNames[q]
	if !ok {
		return "", false
	}
	return year + "年第" + cn + "季度", true
}

func yearQuarter(m []string) (string, bool) { return formatQuarter(m[1], m[2]) }
func quarterYear(m []string) (string, bool) { return formatQuarter(m[2], m[1]) }

func yearMonth(m []string) (string, bool) {
	month, err := strconv.Atoi(m[2])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	return formatQuarter(m[1], strconv.Itoa((month-1)/3+1))
}

// QuarterRules resolve an evaluation period such as "2025年第三季度".
var QuarterRules = []Rule{
	{"explicit_quarter", regexp.MustCompile(`(\d{4})\s*年?\s*第\s*([一二三四1234])\s*季度?`), yearQuarter},
	{"bare_quarter", regexp.MustCompile(`(\d{4})\s*年?\s*([一二三四1234])\s*季度`), yearQuarter},
	{"year_q", regexp.MustCompile(`(?i)(\d{4})\s*q([1-4])`), yearQuarter},
	{"q_year", regexp.MustCompile(`(?i)q([1-4])\s*(\d{4})`), quarterYear},
	{"year_month", regexp.MustCompile(`(\d{4})[年\-](\d{1,2})月?`), yearMonth},
}

const hanName = `([\x{4e00}-\x{9fa5}]{2,4})`

func firstGroup(m []string) (string, bool) {
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// joinGroups concatenates the non-empty submatches.
func joinGroups(m []string) (string, bool) {
	var b strings.Builder
	for _, g := range m[1:] {
		b.WriteString(g)
	}
	v := strings.TrimSpace(b.String())
	return v, v != ""
}

// NameRules match a two to four character Chinese name after a label.
var NameRules = []Rule{
	{"述职人", regexp.MustCompile(`述职人[：:]\s*` + hanName), firstGroup},
	{"姓名", regexp.MustCompile(`姓名[：:]\s*` + hanName), firstGroup},
	{"汇报人", regexp.MustCompile(`汇报人[：:]\s*` + hanName), firstGroup},
	{"花名", regexp.MustCompile(`花名[：:]\s*` + hanName), firstGroup},
	{"我是", regexp.MustCompile(`我是\s*` + hanName), firstGroup},
	{"本人", regexp.MustCompile(`本人\s*` + hanName), firstGroup},
	{"申请人", regexp.MustCompile(`申请人[：:]\s*` + hanName), firstGroup},
}

const hanRole = `([\x{4e00}-\x{9fa5}]{2,10})`

// PositionRules match role labels, job titles and grade codes, case-insensitively.
var PositionRules = []Rule{
	{"职位", regexp.MustCompile(`(?i)职位[：:]\s*` + hanRole), joinGroups},
	{"岗位", regexp.MustCompile(`(?i)岗位[：:]\s*` + hanRole), joinGroups},
	{"职级", regexp.MustCompile(`(?i)职级[：:]\s*(p\d+|[\x{4e00}-\x{9fa5}]{2,10})`), joinGroups},
	{"申请岗位", regexp.MustCompile(`(?i)申请岗位[：:]\s*` + hanRole), joinGroups},
	{"担任", regexp.MustCompile(`(?i)担任\s*` + hanRole), joinGroups},
	{"job_title", regexp.MustCompile(`(高级|中级|初级|资深)?(工程师|开发|架构师|经理|主管|总监|专员|策划)`), joinGroups},
	{"grade", regexp.MustCompile(`(?i)([ptm]\d+)`), joinGroups},
}

// FieldSources records which rule produced each identity field; empty means
// no rule matched.
type FieldSources struct {
	Name   string
	Role   string
	Period string
}

// Identity extracts name, role and period by pattern. The period is searched
// in the lowercased filename followed by the first QuarterScanRunes runes of
// text; name and role in the first 1500 runes. Unmatched fields are
// domain.Unknown.
func Identity(text, filename string) domain.ExtractedIdentity {
	id, _ := IdentityWithSources(text, filename)
	return id
}

// IdentityWithSources is Identity plus the name of the rule behind each field.
func IdentityWithSources(text, filename string) (domain.ExtractedIdentity, FieldSources) {
	id := domain.UnknownIdentity()
	var src FieldSources

	periodScope := strings.ToLower(filename) + "\n" + textx.Prefix(text, QuarterScanRunes)
	if v, rule, ok := Apply(QuarterRules, periodScope); ok {
		id.Period, src.Period = v, rule
	}
	if v, rule, ok := Apply(NameRules, textx.Prefix(text, NameScanRunes)); ok {
		id.Name, src.Name = v, rule
	}
	if v, rule, ok := Apply(PositionRules, textx.Prefix(text, PositionScanRunes)); ok {
		id.Role, src.Role = v, rule
	}
	return id, src
}
