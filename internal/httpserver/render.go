package httpserver

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() *Renderer {
	t := template.Must(template.New("reports").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
	return &Renderer{templates: t}
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
