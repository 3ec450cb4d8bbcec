package http

import (
	"html/template"
	"net/url"
	"strings"
)

// abbreviations expands the classification acronyms shown on book pages.
var abbreviations = map[string]string{
	"DDC":  "Dewey Decimal Classification",
	"FAST": "Faceted Application of Subject Terminology",
	"LCC":  "Library of Congress Classification",
	"OCLC": "Online Computer Library Center",
	"OWI":  "OCLC Work ID",
}

// abbr wraps a known acronym in an <abbr> element carrying its expansion.
func abbr(value string) template.HTML {
	escaped := template.HTMLEscapeString(value)
	expansion, ok := abbreviations[value]
	if !ok {
		return template.HTML(escaped)
	}
	return template.HTML(`<abbr title="` + template.HTMLEscapeString(expansion) + `">` + escaped + `</abbr>`)
}

// filterURL links to the listing filtered by name=value.
func filterURL(name, value string) string {
	return "/?" + url.Values{name: {value}}.Encode()
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"abbr":      abbr,
		"filterURL": filterURL,
		"upper":     strings.ToUpper,
		"add": func(a, b int) int {
			return a + b
		},
	}
}
