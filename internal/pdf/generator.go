package pdf

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

//go:embed report.html.tmpl
var defaultTemplate string

// Report is the data rendered into the leads report.
type Report struct {
	Keyword     string
	MinScore    float64
	GeneratedAt time.Time
	Leads       []models.RankedPosting
}

// Generator renders ranked leads into an HTML page and prints it to PDF.
type Generator struct {
	tmpl *template.Template
}

var funcMap = template.FuncMap{
	"score": func(s float64) string { return fmt.Sprintf("%.3f", s) },
	"inc":   func(i int) int { return i + 1 },
}

// NewGenerator parses the template at templatePath, or the built-in one when the path is empty.
func NewGenerator(templatePath string) (*Generator, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if templatePath == "" {
		tmpl, err = template.New("report").Funcs(funcMap).Parse(defaultTemplate)
	} else {
		tmpl, err = template.New(filepath.Base(templatePath)).Funcs(funcMap).ParseFiles(templatePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

func (g *Generator) RenderHTML(report Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders the report and prints it to an A4 PDF with a headless browser.
func (g *Generator) Generate(report Report) ([]byte, error) {
	html, err := g.RenderHTML(report)
	if err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(string(html), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Landscape:       playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Bottom: playwright.String("12mm"),
			Left:   playwright.String("10mm"),
			Right:  playwright.String("10mm"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

// SaveToFile stores a printed report at path, creating missing directories.
func SaveToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Internal("creating report dir", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Internal("writing report "+path, err)
	}
	return nil
}
