package paper

import (
	"html/template"
	"strings"
)

// RenderMeta carries the header fields printed on a paper.
type RenderMeta struct {
	Title      string
	Exam       string
	Standard   string
	Subject    string
	Seed       string
	TotalMarks int
	Duration   string
	Watermark  string
}

type renderColumn struct {
	Items []renderItem
}

type renderItem struct {
	N       int
	Text    string
	Marks   int
	Options []renderOption
}

type renderOption struct {
	Letter string
	Text   string
}

type renderPage struct {
	Meta  RenderMeta
	Left  renderColumn
	Right renderColumn
}

var paperTmpl = template.Must(template.New("paper").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Meta.Title}}</title>
<style>
  body { font-family: "Times New Roman", serif; margin: 24px; position: relative; }
  .header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 8px; }
  .header h1 { margin: 0; font-size: 20px; }
  .header .sub { font-size: 13px; margin-top: 4px; }
  .meta-row { display: flex; justify-content: space-between; font-size: 13px; margin-top: 6px; }
  .columns { display: flex; gap: 28px; margin-top: 16px; }
  .col { flex: 1; border-right: 1px dashed #999; padding-right: 14px; }
  .col:last-child { border-right: none; padding-right: 0; }
  .q { margin-bottom: 14px; font-size: 13px; page-break-inside: avoid; }
  .q .stem { font-weight: bold; }
  .q .marks { float: right; font-weight: normal; font-size: 11px; }
  .opt { margin-left: 18px; margin-top: 2px; }
  .watermark { position: fixed; top: 45%; left: 50%; transform: translate(-50%, -50%) rotate(-30deg);
    font-size: 56px; color: rgba(0, 0, 0, 0.07); pointer-events: none; white-space: nowrap; }
  .seedbox { margin-top: 20px; font-size: 10px; color: #555; text-align: right; }
  @media print { .watermark { position: fixed; } }
</style>
</head>
<body>
{{if .Meta.Watermark}}<div class="watermark">{{.Meta.Watermark}}</div>{{end}}
<div class="header">
  <h1>{{.Meta.Title}}</h1>
  <div class="sub">{{.Meta.Exam}}{{if .Meta.Standard}} &middot; Class {{.Meta.Standard}}{{end}}{{if .Meta.Subject}} &middot; {{.Meta.Subject}}{{end}}</div>
  <div class="meta-row">
    <span>Total Marks: {{.Meta.TotalMarks}}</span>
    {{if .Meta.Duration}}<span>Time: {{.Meta.Duration}}</span>{{end}}
  </div>
</div>
<div class="columns">
  <div class="col">
{{range .Left.Items}}{{template "question" .}}{{end}}  </div>
  <div class="col">
{{range .Right.Items}}{{template "question" .}}{{end}}  </div>
</div>
{{if .Meta.Seed}}<div class="seedbox">Paper ref: {{.Meta.Seed}}</div>{{end}}
</body>
</html>
{{define "question"}}    <div class="q">
      <div class="stem">Q{{.N}}. {{.Text}} <span class="marks">[{{.Marks}}]</span></div>
{{range .Options}}      <div class="opt">{{.Letter}}) {{.Text}}</div>
{{end}}    </div>
{{end}}`))

// RenderHTML produces the printable two-column page for the selection.
func RenderHTML(meta RenderMeta, selected []Record, layout Layout) (string, error) {
	left, right := SplitColumns(selected, layout)
	page := renderPage{
		Meta:  meta,
		Left:  renderColumn{Items: renderItems(left)},
		Right: renderColumn{Items: renderItems(right)},
	}
	var b strings.Builder
	if err := paperTmpl.Execute(&b, page); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderItems(col []Numbered) []renderItem {
	items := make([]renderItem, 0, len(col))
	for _, q := range col {
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		item := renderItem{N: q.N, Text: q.Question, Marks: marks}
		for j, opt := range q.Options {
			item.Options = append(item.Options, renderOption{Letter: optionLetter(j), Text: opt})
		}
		items = append(items, item)
	}
	return items
}
