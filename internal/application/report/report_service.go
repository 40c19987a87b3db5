package report

import (
	"context"
	"fmt"
	"time"

	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/report"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Printer renders a named document template to PDF
type Printer interface {
	Print(ctx context.Context, name string, data any) ([]byte, error)
}

const (
	pdfContentType  = "application/pdf"
	topProductLimit = 10
	stockPageSize   = 100
)

// ReportService builds the printable documents of the back office
type ReportService struct {
	orderRepo   trade.OrderRepository
	clientRepo  partner.ClientRepository
	productRepo catalog.ProductRepository
	entryRepo   finance.AccountingEntryRepository
	printer     Printer
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	orderRepo trade.OrderRepository,
	clientRepo partner.ClientRepository,
	productRepo catalog.ProductRepository,
	entryRepo finance.AccountingEntryRepository,
	printer Printer,
) *ReportService {
	return &ReportService{
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		entryRepo:   entryRepo,
		printer:     printer,
		now:         time.Now,
	}
}

// Invoice prints the invoice of an order
func (s *ReportService) Invoice(ctx context.Context, orderID uuid.UUID) (*Document, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// A deleted client still leaves a printable invoice
	client, err := s.clientRepo.FindByID(ctx, order.ClientID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		logger.L(ctx).Warn("invoice printed without client",
			zap.String("order_number", order.OrderNumber),
			zap.String("client_id", order.ClientID.String()))
		client = nil
	}

	invoice := report.NewInvoice(order, client, s.now())
	return s.print(ctx, DocumentInvoice, "facture-"+order.OrderNumber+".pdf", invoice)
}

// Sales prints the sales summary of a period
func (s *ReportService) Sales(ctx context.Context, filter SalesFilter) (*Document, error) {
	now := s.now()
	from, to := salesPeriod(filter, now)
	if to.Before(from) {
		return nil, shared.NewBadRequestError("INVALID_PERIOD", "The end of the period is before its start")
	}
	end := to.AddDate(0, 0, 1)

	counts, err := s.orderRepo.CountByStatus(ctx, from, end)
	if err != nil {
		return nil, err
	}
	top, err := s.orderRepo.TopProducts(ctx, from, end, topProductLimit)
	if err != nil {
		return nil, err
	}
	totals, err := s.entryRepo.TotalsByType(ctx, &from, &end)
	if err != nil {
		return nil, err
	}

	sales := report.NewSalesReport(from, to, counts, top, finance.NewSummary(&from, &to, totals), now)
	filename := fmt.Sprintf("ventes-%s-%s.pdf", from.Format("20060102"), to.Format("20060102"))
	return s.print(ctx, DocumentSales, filename, sales)
}

// Stock prints every product with its stock level
func (s *ReportService) Stock(ctx context.Context) (*Document, error) {
	products, err := s.allProducts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stock := report.NewStockReport(products, now)
	return s.print(ctx, DocumentStock, "stock-"+now.Format("20060102")+".pdf", stock)
}

func (s *ReportService) allProducts(ctx context.Context) ([]catalog.Product, error) {
	filter := shared.Filter{
		Page:     1,
		PageSize: stockPageSize,
		OrderBy:  "reference",
		OrderDir: "asc",
	}
	var all []catalog.Product
	for {
		batch, err := s.productRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < filter.PageSize {
			return all, nil
		}
		filter.Page++
	}
}

func (s *ReportService) print(ctx context.Context, name, filename string, data any) (*Document, error) {
	start := time.Now()
	content, err := s.printer.Print(ctx, name, data)
	if err != nil {
		logger.L(ctx).Error("document generation failed", zap.String("document", name), zap.Error(err))
		return nil, shared.NewDomainError(shared.KindInternal, "PDF_GENERATION_FAILED", "The document could not be generated")
	}

	logger.L(ctx).Info("document generated",
		zap.String("document", name),
		zap.Int("bytes", len(content)),
		zap.Duration("duration", time.Since(start)))
	return &Document{Filename: filename, ContentType: pdfContentType, Content: content}, nil
}

// salesPeriod resolves the inclusive day range of the report
func salesPeriod(filter SalesFilter, now time.Time) (time.Time, time.Time) {
	today := truncateDay(now)
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	to := today
	if filter.From != nil {
		from = truncateDay(*filter.From)
	}
	if filter.To != nil {
		to = truncateDay(*filter.To)
	}
	return from, to
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
