package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"dhoni/internal/domain"
	"dhoni/internal/store"
)

// Invoice is a rendered fish-sale invoice.
type Invoice struct {
	Number string `json:"invoiceNumber"`
	Date   string `json:"date"`
	HTML   string `json:"html"`
}

// InvoiceData is the template input for one invoice.
type InvoiceData struct {
	Number string
	Date   string
	Boat   domain.BoatSettings
	Sale   domain.Sale
}

// InvoiceService renders HTML invoices for individual fish sales.
type InvoiceService struct {
	trips    *TripService
	settings *SettingsService
	tmpl     *template.Template
	log      zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(trips *TripService, settings *SettingsService, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		trips:    trips,
		settings: settings,
		tmpl:     template.Must(template.New("invoice").Parse(invoiceTemplate)),
		log:      log.With().Str("component", "invoice_service").Logger(),
	}
}

// Generate builds the invoice for one sale of a trip, using the
// session's boat settings for the letterhead and bank details.
func (s *InvoiceService) Generate(ctx context.Context, sess store.Session, tripID, saleID string) (*Invoice, error) {
	if saleID == "" {
		return nil, ErrInvalidSaleID
	}

	trip, err := s.trips.GetTrip(ctx, sess, tripID)
	if err != nil {
		return nil, err
	}

	var sale *domain.Sale
	for i := range trip.FishSales {
		if trip.FishSales[i].ID == saleID {
			sale = &trip.FishSales[i]
			break
		}
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	boat, err := s.settings.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	data := InvoiceData{
		Number: NewInvoiceNumber(time.Now()),
		Date:   trip.Date,
		Boat:   boat,
		Sale:   *sale,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return &Invoice{
		Number: data.Number,
		Date:   data.Date,
		HTML:   buf.String(),
	}, nil
}

// NewInvoiceNumber derives an invoice number from the issue time:
// INV-YYYYMMDD-<last four digits of the unix millisecond clock>.
func NewInvoiceNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), millis[len(millis)-4:])
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.Number}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; align-items: center; border-bottom: 2px solid #0ea5e9; padding-bottom: 20px; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #0ea5e9; }
        .invoice-number { font-size: 18px; font-weight: bold; }
        .section-title { font-size: 16px; font-weight: bold; margin-bottom: 10px; color: #0ea5e9; }
        .info-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; }
        .info-item { margin-bottom: 8px; }
        .label { font-weight: bold; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background-color: #f8fafc; font-weight: bold; }
        .total-row { font-weight: bold; font-size: 18px; background-color: #f0f9ff; }
        .payment-status { padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; }
        .paid { background-color: #dcfce7; color: #166534; }
        .unpaid { background-color: #fef3c7; color: #92400e; }
        .footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #ddd; text-align: center; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            {{if .Boat.LogoURL}}<img src="{{.Boat.LogoURL}}" alt="Boat logo" style="height: 40px; width: 40px; object-fit: contain;">{{end}}
            <div class="logo">{{.Boat.BoatName}}</div>
            <div style="margin-top: 5px; color: #666;">Fishing Invoice</div>
        </div>
        <div class="invoice-number">Invoice #{{.Number}}</div>
    </div>

    <div class="info-grid">
        <div class="boat-info">
            <div class="section-title">From:</div>
            <div class="info-item"><span class="label">Boat:</span> {{.Boat.BoatName}}</div>
            <div class="info-item"><span class="label">Owner:</span> {{.Boat.OwnerName}}</div>
            <div class="info-item"><span class="label">Contact:</span> {{.Boat.ContactNumber}}</div>
            <div class="info-item"><span class="label">Email:</span> {{.Boat.Email}}</div>
            <div class="info-item"><span class="label">Address:</span> {{.Boat.Address}}</div>
            <div class="info-item"><span class="label">Registration:</span> {{.Boat.RegistrationNumber}}</div>
        </div>

        <div class="customer-info">
            <div class="section-title">To:</div>
            <div class="info-item"><span class="label">Customer:</span> {{.Sale.Name}}</div>
            <div class="info-item"><span class="label">Contact:</span> {{.Sale.Contact}}</div>
            <div class="info-item"><span class="label">Date:</span> {{.Date}}</div>
        </div>
    </div>

    <table>
        <thead>
            <tr>
                <th>Description</th>
                <th>Weight (kg)</th>
                <th>Rate (MVR/kg)</th>
                <th>Amount (MVR)</th>
                <th>Status</th>
            </tr>
        </thead>
        <tbody>
            <tr>
                <td>{{if .Sale.FishType}}{{.Sale.FishType}} Fish{{else}}Fresh Fish{{end}}</td>
                <td>{{.Sale.Weight}}</td>
                <td>{{printf "%.2f" .Sale.RatePrice}}</td>
                <td>{{printf "%.2f" .Sale.TotalAmount}}</td>
                <td><span class="payment-status {{if .Sale.Paid}}paid{{else}}unpaid{{end}}">{{if .Sale.Paid}}PAID{{else}}UNPAID{{end}}</span></td>
            </tr>
            <tr class="total-row">
                <td colspan="3">Total</td>
                <td colspan="2">MVR {{printf "%.2f" .Sale.TotalAmount}}</td>
            </tr>
        </tbody>
    </table>

    {{if .Boat.BankName}}
    <div class="bank-info">
        <div class="section-title">Payment Details:</div>
        <div class="info-item"><span class="label">Bank:</span> {{.Boat.BankName}}</div>
        <div class="info-item"><span class="label">Account Name:</span> {{.Boat.AccountName}}</div>
        <div class="info-item"><span class="label">Account Number:</span> {{.Boat.AccountNumber}}</div>
    </div>
    {{end}}

    {{if .Sale.Remarks}}<div class="info-item"><span class="label">Remarks:</span> {{.Sale.Remarks}}</div>{{end}}

    <div class="footer">Thank you for your business!</div>
</body>
</html>
`
