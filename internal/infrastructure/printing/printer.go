package printing

import (
	"context"
)

// documentLayout holds per-template page settings
type documentLayout struct {
	title       string
	orientation Orientation
}

var layouts = map[string]documentLayout{
	TemplateInvoice: {title: "Facture", orientation: OrientationPortrait},
	TemplateSales:   {title: "Rapport des ventes", orientation: OrientationPortrait},
	TemplateStock:   {title: "État du stock", orientation: OrientationLandscape},
}

const pageFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#777;">` +
	`Page <span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// Printer turns a named template and its data into a PDF
type Printer struct {
	engine   *TemplateEngine
	renderer PDFRenderer
}

// NewPrinter creates a printer over an engine and a renderer
func NewPrinter(engine *TemplateEngine, renderer PDFRenderer) *Printer {
	return &Printer{engine: engine, renderer: renderer}
}

// Print renders the template to HTML then prints it to PDF
func (p *Printer) Print(ctx context.Context, name string, data any) ([]byte, error) {
	html, err := p.engine.Render(name, data)
	if err != nil {
		return nil, err
	}

	layout, ok := layouts[name]
	if !ok {
		layout = documentLayout{title: name, orientation: OrientationPortrait}
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		Title:       layout.title,
		Orientation: layout.orientation,
		Margins:     DefaultMargins(),
		FooterHTML:  pageFooter,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// Close releases the underlying renderer
func (p *Printer) Close() error {
	return p.renderer.Close()
}
