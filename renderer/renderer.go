// Package renderer formats ledger reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/tradelog"
)

//go:embed templates/*.md
var embedded embed.FS

// templates is the template folder.
var templates, _ = fs.Sub(embedded, "templates")

// funcs are available in every template.
var funcs = template.FuncMap{
	"ret": formatReturn,
}

// formatReturn maps the return sentinels to text: "n/a" when the window reaches before
// January, "0.00%" when there is no annualized rate.
func formatReturn(r tradelog.RollingReturn) string {
	switch r.Status {
	case tradelog.Computed:
		return r.Return.String()
	case tradelog.InsufficientHistory:
		return "n/a"
	default:
		return tradelog.Percent(0).String()
	}
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
