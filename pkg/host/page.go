package host

import (
	"bytes"
	_ "embed"
	"html/template"
)

//go:embed assets/client.js
var clientJS []byte

//go:embed assets/tooltip.css
var defaultCSS string

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
{{.Body}}
<script src="/client.js" defer></script>
</body>
</html>
`))

type pageData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

// renderPage wraps body, which must be trusted markup, in the page shell.
func renderPage(title, stylesheet, body string) ([]byte, error) {
	css := defaultCSS
	if stylesheet != "" {
		css += "\n" + stylesheet
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title: title,
		CSS:   template.CSS(css),
		Body:  template.HTML(body),
	})
	return buf.Bytes(), err
}
