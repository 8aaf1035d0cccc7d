package reports

import (
	"bytes"
	_ "embed"
	"html/template"
)

//go:embed templates/report.html.tmpl
var reportHTML string

var htmlTemplate = template.Must(template.New("report").Parse(reportHTML))

// RenderHTML renders the report as a standalone HTML document. Values are escaped.
func RenderHTML(report Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
