package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// PageData feeds the widget page template
type PageData struct {
	Title     string
	Headline  string
	Currency  string
	Subtitle  string
	ActionURL string
	ChartURL  string
	Chrome    Chrome
}

// NewPageData assembles the page for a mounted widget. basePath is the URL of
// the widget resource, e.g. /widgets/<id>.
func NewPageData(cfg view.Config, snap view.Snapshot, basePath string) PageData {
	cfg = cfg.WithDefaults()
	return PageData{
		Title:     cfg.Title,
		Headline:  DefaultFormatter.Number(snap.Last),
		Currency:  cfg.Currency,
		Subtitle:  Subtitle(snap.Delta),
		ActionURL: basePath + "/actions",
		ChartURL:  fmt.Sprintf("%s/chart.svg?frame=%s&fullscreen=%t", basePath, snap.State.TimeFrame, snap.State.Fullscreen),
		Chrome:    BuildChrome(snap),
	}
}

// Page renders the widget page
func Page(w io.Writer, data PageData) error {
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
