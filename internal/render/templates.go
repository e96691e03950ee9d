package render

import (
	"fmt"
	"html/template"
	"strings"
)

const sharedTemplates = `
{{define "anchors"}}{{if .Preview}} data-widget-id="{{.ID}}" data-widget-type="{{.Type}}"{{end}}{{end}}
{{define "style"}}{{if .Style}} style="{{.Style}}"{{end}}{{end}}
{{define "attrs"}}{{template "anchors" .}}{{template "style" .}}{{end}}
{{define "dropzone"}}<div class="sb-drop-zone" data-drop-target="{{.Type}}"></div>{{end}}
{{define "dropdown-menu"}}<ul class="dropdown-menu">{{range .}}{{if .Nested}}<li class="dropdown-submenu"><a class="dropdown-item dropdown-toggle{{if .Active}} active{{end}}" href="{{.URL}}">{{markup .Text}}</a><ul class="dropdown-menu">{{range .Nested}}<li><a class="dropdown-item{{if .Active}} active{{end}}" href="{{.URL}}">{{markup .Text}}</a></li>{{end}}</ul></li>{{else}}<li><a class="dropdown-item{{if .Active}} active{{end}}" href="{{.URL}}"{{if .Active}} aria-current="page"{{end}}>{{markup .Text}}</a></li>{{end}}{{end}}</ul>{{end}}
`

const containerTemplates = `
{{define "row"}}<div class="sb-row{{if .A.FullWidth}} sb-row-full{{end}}"{{template "anchors" .}}><div class="sb-row-inner"{{template "style" .}}><div class="{{.Classes}}">{{if .Children}}{{.Children}}{{else}}{{template "dropzone" .}}{{end}}</div></div></div>{{end}}
{{define "column"}}<div class="{{.Classes}}"{{template "anchors" .}}><div class="sb-column"{{template "style" .}}>{{if .Children}}{{.Children}}{{else}}{{template "dropzone" .}}{{end}}</div></div>{{end}}
`

const leafTemplates = `
{{define "richtext"}}<div class="sb-richtext"{{template "attrs" .}}>{{markup .A.Content}}</div>{{end}}
{{define "rawhtml"}}<div class="sb-html"{{template "attrs" .}}>{{markup .A.Content}}</div>{{end}}
{{define "markdown"}}<div class="sb-markdown"{{template "attrs" .}}>{{.Markup}}</div>{{end}}
{{define "separator"}}<hr class="sb-separator"{{template "attrs" .}}>{{end}}
{{define "button"}}{{if .Dropdown}}<div class="dropdown sb-button"{{template "attrs" .}}><button class="{{.Classes}} dropdown-toggle" type="button" data-bs-toggle="dropdown" aria-expanded="false">{{.A.Text}}</button>{{template "dropdown-menu" .Dropdown}}</div>{{else}}<a class="{{.Classes}}" href="{{.URL}}" role="button"{{if .A.Target}} target="{{.A.Target}}"{{end}}{{if .Active}} aria-current="page"{{end}}{{template "attrs" .}}>{{.A.Text}}</a>{{end}}{{end}}
{{define "link"}}{{if .Dropdown}}<div class="dropdown sb-link"{{template "attrs" .}}><a class="{{.Classes}} dropdown-toggle" href="{{.URL}}" role="button" data-bs-toggle="dropdown" aria-expanded="false">{{.A.Text}}</a>{{template "dropdown-menu" .Dropdown}}</div>{{else}}<a class="{{.Classes}}" href="{{.URL}}"{{if .A.Target}} target="{{.A.Target}}"{{end}}{{if .Active}} aria-current="page"{{end}}{{template "attrs" .}}>{{.A.Text}}</a>{{end}}{{end}}
{{define "card"}}<div class="card"{{template "attrs" .}}>{{if .A.ImageURL}}<img class="card-img-top" src="{{.A.ImageURL}}" alt="{{.A.ImageAlt}}">{{end}}<div class="card-body">{{if .A.Title}}<h5 class="card-title">{{markup .A.Title}}</h5>{{end}}{{if .A.Content}}<div class="card-text">{{markup .A.Content}}</div>{{end}}{{if .A.ButtonText}}<a class="btn btn-primary" href="{{.URL}}">{{.A.ButtonText}}</a>{{end}}</div>{{if .A.Footer}}<div class="card-footer">{{markup .A.Footer}}</div>{{end}}</div>{{end}}
{{define "alert"}}<div class="{{.Classes}}" role="alert"{{template "attrs" .}}>{{markup .A.Content}}{{if .A.Dismissible}}<button type="button" class="btn-close" data-bs-dismiss="alert" aria-label="Close"></button>{{end}}</div>{{end}}
{{define "image"}}<figure class="sb-image"{{template "attrs" .}}>{{if .A.Link}}<a href="{{.URL}}">{{end}}<img class="{{.Classes}}" src="{{.A.Src}}" alt="{{.A.Alt}}"{{if .A.Width}} width="{{.A.Width}}"{{end}}>{{if .A.Link}}</a>{{end}}{{if .A.Caption}}<figcaption class="figure-caption">{{.A.Caption}}</figcaption>{{end}}</figure>{{end}}
{{define "video"}}{{if .A.Embed}}<div class="ratio ratio-16x9 sb-video"{{template "attrs" .}}><iframe src="{{.A.Src}}" title="video" allowfullscreen></iframe></div>{{else}}<video class="sb-video w-100" src="{{.A.Src}}"{{if .A.Poster}} poster="{{.A.Poster}}"{{end}}{{if .Controls}} controls{{end}}{{if .A.Autoplay}} autoplay{{end}}{{if .A.Loop}} loop{{end}}{{if .A.Muted}} muted{{end}}{{template "attrs" .}}></video>{{end}}{{end}}
{{define "accordion"}}<div class="accordion{{if .A.Flush}} accordion-flush{{end}}" id="acc-{{.ID}}"{{template "attrs" .}}>{{range $i, $item := .A.Items}}<div class="accordion-item"><h2 class="accordion-header" id="acc-{{$.ID}}-h{{$i}}"><button class="accordion-button{{if not $item.Expanded}} collapsed{{end}}" type="button" data-bs-toggle="collapse" data-bs-target="#acc-{{$.ID}}-c{{$i}}" aria-expanded="{{$item.Expanded}}" aria-controls="acc-{{$.ID}}-c{{$i}}">{{markup $item.Title}}</button></h2><div id="acc-{{$.ID}}-c{{$i}}" class="accordion-collapse collapse{{if $item.Expanded}} show{{end}}" aria-labelledby="acc-{{$.ID}}-h{{$i}}"{{if not $.A.AlwaysOpen}} data-bs-parent="#acc-{{$.ID}}"{{end}}><div class="accordion-body">{{markup $item.Content}}</div></div></div>{{end}}</div>{{end}}
{{define "badge"}}<span class="{{.Classes}}"{{template "attrs" .}}>{{.A.Text}}</span>{{end}}
{{define "breadcrumb"}}<nav aria-label="breadcrumb"{{template "attrs" .}}><ol class="breadcrumb">{{range .Crumbs}}{{if .Last}}<li class="breadcrumb-item active" aria-current="page">{{.Label}}</li>{{else}}<li class="breadcrumb-item">{{if .URL}}<a href="{{.URL}}">{{.Label}}</a>{{else}}{{.Label}}{{end}}</li>{{end}}{{end}}</ol></nav>{{end}}
{{define "collapse"}}<div class="sb-collapse"{{template "attrs" .}}><button class="btn btn-link" type="button" data-bs-toggle="collapse" data-bs-target="#col-{{.ID}}" aria-expanded="{{.A.Expanded}}" aria-controls="col-{{.ID}}">{{.A.Title}}</button><div class="collapse{{if .A.Expanded}} show{{end}}" id="col-{{.ID}}"><div class="card card-body">{{markup .A.Content}}</div></div></div>{{end}}
{{define "tabs"}}<div class="sb-tabs"{{template "attrs" .}}><ul class="nav nav-{{.A.Style}}" role="tablist">{{range $i, $tab := .Tabs}}<li class="nav-item" role="presentation"><button class="nav-link{{if $tab.Active}} active{{end}}" id="tab-{{$.ID}}-{{$i}}-tab" data-bs-toggle="tab" data-bs-target="#tab-{{$.ID}}-{{$i}}" type="button" role="tab" aria-controls="tab-{{$.ID}}-{{$i}}" aria-selected="{{$tab.Active}}">{{markup $tab.Title}}</button></li>{{end}}</ul><div class="tab-content">{{range $i, $tab := .Tabs}}<div class="tab-pane fade{{if $tab.Active}} show active{{end}}" id="tab-{{$.ID}}-{{$i}}" role="tabpanel" aria-labelledby="tab-{{$.ID}}-{{$i}}-tab">{{markup $tab.Content}}</div>{{end}}</div></div>{{end}}
{{define "toast"}}<div class="toast" role="alert" aria-live="assertive" aria-atomic="true" data-bs-delay="{{.A.Delay}}" data-bs-autohide="{{.A.Autohide}}"{{template "attrs" .}}>{{if .A.Title}}<div class="toast-header"><strong class="me-auto">{{.A.Title}}</strong><button type="button" class="btn-close" data-bs-dismiss="toast" aria-label="Close"></button></div>{{end}}<div class="toast-body">{{markup .A.Content}}</div></div>{{end}}
{{define "copyright"}}<p class="sb-copyright"{{template "attrs" .}}>&copy; {{if .A.Year}}{{.A.Year}} {{end}}{{.A.Holder}}{{if .A.Text}} {{.A.Text}}{{end}}</p>{{end}}
{{define "social"}}<ul class="{{.Classes}}"{{template "attrs" .}}>{{range .A.Platforms}}<li class="sb-social-item"><a href="{{.URL}}" target="_blank" rel="noopener" aria-label="{{.Network}}" class="sb-social-{{.Network}}"><i class="bi bi-{{.Network}}"></i></a></li>{{end}}</ul>{{end}}
{{define "unknown"}}<div class="sb-widget-unknown" data-widget-unknown="{{.Type}}"{{template "anchors" .}}>Unsupported widget: {{.Type}}</div>{{end}}
{{define "invalid"}}<div class="sb-widget-invalid"{{template "anchors" .}}>Invalid {{.Type}} widget</div>{{end}}
`

func headingTemplates() string {
	var b strings.Builder
	for level := 1; level <= 6; level++ {
		fmt.Fprintf(&b, `{{define "heading%d"}}<h%d class="{{.Classes}}"{{template "attrs" .}}>{{markup .A.Content}}</h%d>{{end}}`, level, level, level)
		b.WriteString("\n")
	}
	return b.String()
}

var widgetTemplates = template.Must(
	template.New("widgets").
		Funcs(template.FuncMap{
			// markup marks values that already passed the HTML sanitiser.
			"markup": func(s string) template.HTML { return template.HTML(s) }, // #nosec G203
		}).
		Parse(sharedTemplates + containerTemplates + leafTemplates + headingTemplates()),
)
