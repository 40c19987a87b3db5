package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names shipped with the binary
const (
	TemplateInvoice = "invoice"
	TemplateSales   = "sales"
	TemplateStock   = "stock"
)

// TemplateEngine renders the embedded HTML templates with business data.
// Numbers and dates are formatted for a French reader.
type TemplateEngine struct {
	templates *template.Template
	printer   *message.Printer
	location  *time.Location
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocation sets the time zone used to print dates (default: Europe/Paris, UTC if unavailable)
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine(opts ...TemplateEngineOption) (*TemplateEngine, error) {
	e := &TemplateEngine{
		printer:  message.NewPrinter(language.French),
		location: defaultLocation(),
	}
	for _, opt := range opts {
		opt(e)
	}

	tmpl, err := template.New("documents").Funcs(e.FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	e.templates = tmpl
	return e, nil
}

// Render executes the named template ("invoice", "sales", ...)
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	t := e.templates.Lookup(name + ".html")
	if t == nil {
		return "", NewRenderError(ErrCodeTemplateNotFound, "unknown template "+name, nil)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "template "+name+" failed", err)
	}
	return buf.String(), nil
}

// FuncMap returns the functions available to templates
func (e *TemplateEngine) FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":      e.formatMoney,
		"amount":     e.formatAmount,
		"number":     e.formatInt,
		"date":       e.formatDate,
		"datetime":   e.formatDateTime,
		"statusText": statusText,
		"title":      titleCase,
		"add":        add,
		"sub":        sub,
	}
}

// formatAmount prints a decimal with two fraction digits and French grouping.
// Example: 1234.5 -> "1 234,50"
func (e *TemplateEngine) formatAmount(v any) string {
	d := toDecimal(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart := d.Truncate(0)
	frac := d.Sub(intPart).Shift(2).IntPart()
	return fmt.Sprintf("%s%s,%02d", sign, e.printer.Sprintf("%d", intPart.IntPart()), frac)
}

// formatMoney is formatAmount followed by the euro sign
func (e *TemplateEngine) formatMoney(v any) string {
	return e.formatAmount(v) + " €"
}

// formatInt prints an integer with French grouping
func (e *TemplateEngine) formatInt(v any) string {
	return e.printer.Sprintf("%d", toDecimal(v).Round(0).IntPart())
}

// formatDate prints 02/01/2006
func (e *TemplateEngine) formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("02/01/2006")
}

func (e *TemplateEngine) formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("02/01/2006 15:04")
}

var statusLabels = map[string]string{
	"pending":   "En attente",
	"confirmed": "Confirmée",
	"shipped":   "Expédiée",
	"delivered": "Livrée",
	"cancelled": "Annulée",
	"active":    "Actif",
	"inactive":  "Inactif",
	"income":    "Recette",
	"expense":   "Dépense",
}

// statusText converts status codes to display text
func statusText(status any) string {
	s := fmt.Sprint(status)
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return s
}

func titleCase(s string) string {
	return cases.Title(language.French).String(strings.ToLower(s))
}

func add(a, b any) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func sub(a, b any) decimal.Decimal {
	return toDecimal(a).Sub(toDecimal(b))
}

// toDecimal converts various types to decimal.Decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	default:
		return time.Time{}
	}
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}
