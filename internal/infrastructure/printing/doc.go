// Package printing renders back-office documents (invoices, sales and stock
// reports) to PDF.
//
// Documents are html/template files embedded in the binary. TemplateEngine
// fills them with report read models, and ChromedpRenderer prints the
// resulting HTML through headless Chrome:
//
//	engine, err := printing.NewTemplateEngine()
//	if err != nil {
//	    return err
//	}
//	renderer := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Printing, log))
//	printer := printing.NewPrinter(engine, renderer)
//	defer printer.Close()
//
//	pdf, err := printer.Print(ctx, printing.TemplateInvoice, invoice)
package printing
