package render

import (
	"embed"
	"io"
	"text/template"

	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/textfmt"
)

//go:embed templates/*
var fs embed.FS

var textTemplates = template.Must(
	template.New("base").Funcs(textfmt.FuncMap()).ParseFS(fs, "templates/*.tmpl"),
)

// Text writes a terminal rendering of the view.
func Text(w io.Writer, view library.Render) error {
	return textTemplates.ExecuteTemplate(w, "view.tmpl", view)
}
