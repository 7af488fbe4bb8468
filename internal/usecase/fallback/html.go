package fallback

import (
	"html"
	"html/template"
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// Banner labels for degraded suggestions.
const (
	BackupModeBanner = "⚠️ 备用分析模式"
	BasicModeBanner  = "⚠️ 基础分析模式"
)

// Gap is one detected problem with its canned remediation.
type Gap struct {
	Problem string
	Remedy  string
}

// SuggestionsBlock renders the degraded-mode suggestion HTML. Backup selects
// the backup banner and the retry hint that goes with it.
type SuggestionsBlock struct {
	Backup bool
	Gaps   []Gap
	Parse  *domain.ParseError
}

var suggestionsTmpl = template.Must(template.New("suggestions").Parse(
	`<div class="suggestions-content">
<div class="alert alert-warning">
<strong>{{.Banner}}</strong> - 智能分析服务不可用，当前使用基础关键词分析，建议稍后重试获得更专业的校对结果。
</div>
{{- with .Parse}}
<div class="alert alert-secondary">
<h6>JSON解析错误</h6>
<p><strong>错误位置：</strong> 第{{.Line}}行，第{{.Column}}列</p>
<p><strong>错误信息：</strong> {{.Message}}</p>
<details>
<summary>查看原始响应</summary>
<pre>{{.Excerpt}}{{if .Truncated}}...{{end}}</pre>
</details>
</div>
{{- end}}
<h5>系统已完成校对，共检测到 {{len .Gaps}}处 需要关注的内容</h5>
<h5>一、内容完整性维度</h5>
<ul>
{{- range .Gaps}}
<li><strong>问题：{{.Problem}}</strong><br/>修改参考：{{.Remedy}}</li>
{{- end}}
</ul>
<h5>二、表达与呈现维度</h5>
<ul>
<li><strong>问题：分析基于基础模式</strong><br/>修改参考：{{.Retry}}</li>
</ul>
</div>`))

// HTML renders the block. Text fields are escaped; the excerpt is shown as
// preformatted text.
func (s SuggestionsBlock) HTML() string {
	view := struct {
		Banner string
		Gaps   []Gap
		Parse  *domain.ParseError
		Retry  string
	}{
		Banner: BasicModeBanner,
		Gaps:   s.Gaps,
		Parse:  s.Parse,
		Retry:  "建议稍后重试获得更专业的校对结果",
	}
	if s.Backup {
		view.Banner = BackupModeBanner
		view.Retry = "建议检查网络连接后重新校对获得更精准分析"
	}
	var b strings.Builder
	if err := suggestionsTmpl.Execute(&b, view); err != nil {
		return `<div class="suggestions-content"><strong>` + html.EscapeString(view.Banner) + `</strong></div>`
	}
	return b.String()
}
