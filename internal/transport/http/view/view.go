package view

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"burgerreview/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Load parses every page template. Pages share the "header" and "footer"
// blocks from layout.html and are looked up by file name.
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates failed: %w", err)
	}
	return tmpl, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"stars": func(rating int) string {
			if rating < 0 {
				rating = 0
			}
			out := make([]rune, 0, 5)
			for i := 1; i <= 5; i++ {
				if i <= rating {
					out = append(out, '★')
				} else {
					out = append(out, '☆')
				}
			}
			return string(out)
		},
		"average": func(r *model.BurgerRating) string {
			if r == nil || r.ReviewCount == 0 {
				return "no reviews yet"
			}
			return fmt.Sprintf("%.1f / 5 (%d reviews)", r.Average(), r.ReviewCount)
		},
	}
}
