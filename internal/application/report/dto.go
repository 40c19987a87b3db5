package report

import "time"

// Document names understood by the Printer
const (
	DocumentInvoice = "invoice"
	DocumentSales   = "sales"
	DocumentStock   = "stock"
)

// Document is a generated PDF ready to be sent as an attachment
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SalesFilter selects the sales report period. Both dates are inclusive;
// From defaults to the first day of the current month and To to today.
type SalesFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}
