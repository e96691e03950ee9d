package layout

import (
	"bytes"
	"html/template"
)

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
{{with .Top}}<nav class="sb-menu sb-menu-top{{if .Sticky}} sticky-top{{end}}"{{with .Style}} style="{{.}}"{{end}}>{{template "region" .}}</nav>
{{end}}<div class="sb-layout d-flex">
{{with .Left}}<aside class="sb-menu sb-menu-left"{{with .Style}} style="{{.}}"{{end}}>{{template "region" .}}</aside>
{{end}}<main class="sb-page flex-grow-1"{{with .Content.Style}} style="{{.}}"{{end}}>{{.Content.HTML}}</main>
{{with .Right}}<aside class="sb-menu sb-menu-right"{{with .Style}} style="{{.}}"{{end}}>{{template "region" .}}</aside>
{{end}}</div>
{{with .Footer}}<footer class="sb-footer"{{with .Style}} style="{{.}}"{{end}}>{{.HTML}}</footer>
{{end}}</body>
</html>
{{define "region"}}{{if .HTML}}{{.HTML}}{{else if .Links}}<ul class="nav">{{range .Links}}<li class="nav-item"><a class="nav-link{{if .Active}} active{{end}}" href="{{.URL}}">{{.Label}}</a></li>{{end}}</ul>{{end}}{{end}}`))

// Shell wraps a composed document in a minimal HTML page.
func Shell(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
