package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/mail"
	"os"
	"strconv"

	"backend/models"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"
)

// MessageSender abstracts the SMTP dialer so sending can be faked in tests.
type MessageSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPConfigFromEnv reads SMTP settings from the environment. Port defaults
// to 587 and From falls back to the username.
func SMTPConfigFromEnv() SMTPConfig {
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	cfg := SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg
}

// Dialer returns a gomail dialer for the config.
func (c SMTPConfig) Dialer() MessageSender {
	return gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)
}

// SendResult reports the outcome of one vendor send.
type SendResult struct {
	VendorID string `json:"vendorId"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// EmailService sends RFP emails to vendors.
type EmailService struct {
	sender MessageSender
	from   string
	logger *zap.Logger
}

// NewEmailService wires an EmailService.
func NewEmailService(sender MessageSender, from string, logger *zap.Logger) *EmailService {
	return &EmailService{sender: sender, from: from, logger: logger}
}

// RFPSubject builds the outbound subject line. The trailing RFP id is the
// correlation key the inbox poller extracts from reply subjects.
func RFPSubject(rfp *models.RFP) string {
	return fmt.Sprintf("Request for Proposal: %s - %s", rfp.Title, rfp.ID)
}

// SendRFPToVendors emails the RFP to each vendor, with an optional PDF copy
// attached. Failures are isolated per vendor: one bad address or SMTP error
// never aborts the remaining sends, and every vendor gets a result entry.
func (s *EmailService) SendRFPToVendors(ctx context.Context, rfp *models.RFP, vendors []models.Vendor, pdf []byte) []SendResult {
	results := make([]SendResult, 0, len(vendors))

	htmlBody, err := RenderRFPEmailHTML(rfp)
	if err != nil {
		s.logger.Error("rendering rfp email body failed", zap.String("rfp_id", rfp.ID), zap.Error(err))
		for _, v := range vendors {
			results = append(results, SendResult{
				VendorID: v.ID, Email: v.Email, Status: "failed", Error: err.Error(),
			})
		}
		return results
	}
	textBody := ConvertHTMLToText(htmlBody)
	subject := RFPSubject(rfp)

	for _, vendor := range vendors {
		if ctx.Err() != nil {
			results = append(results, SendResult{
				VendorID: vendor.ID, Email: vendor.Email, Status: "failed", Error: ctx.Err().Error(),
			})
			continue
		}

		if _, err := mail.ParseAddress(vendor.Email); err != nil {
			s.logger.Warn("skipping vendor with invalid email",
				zap.String("vendor_id", vendor.ID),
				zap.String("email", vendor.Email))
			results = append(results, SendResult{
				VendorID: vendor.ID, Email: vendor.Email, Status: "failed", Error: "invalid email address",
			})
			continue
		}

		m := gomail.NewMessage()
		m.SetHeader("From", s.from)
		m.SetHeader("To", vendor.Email)
		m.SetHeader("Reply-To", s.from)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", textBody)
		m.AddAlternative("text/html", htmlBody)
		if len(pdf) > 0 {
			m.Attach(fmt.Sprintf("rfp-%s.pdf", rfp.ID), gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(pdf)
				return err
			}))
		}

		if err := s.sender.DialAndSend(m); err != nil {
			s.logger.Error("sending rfp email failed",
				zap.String("vendor_id", vendor.ID),
				zap.String("email", vendor.Email),
				zap.Error(err))
			results = append(results, SendResult{
				VendorID: vendor.ID, Email: vendor.Email, Status: "failed", Error: err.Error(),
			})
			continue
		}

		results = append(results, SendResult{
			VendorID: vendor.ID, Email: vendor.Email, Status: "sent",
		})
	}

	return results
}

var rfpEmailTemplate = template.Must(template.New("rfpEmail").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; }
    .header { background: #2c3e50; color: white; padding: 20px; border-radius: 5px; }
    .section { margin: 20px 0; }
    .section h3 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
    table { width: 100%; border-collapse: collapse; }
    td { padding: 8px; border: 1px solid #ddd; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Request for Proposal</h1>
      <p>{{.Title}}</p>
    </div>

    <div class="section">
      <h3>Items Needed</h3>
      <ul>
      {{range .Items}}<li><strong>{{.Name}}</strong> (Qty: {{.Quantity}}){{if .Specs}}
        <ul>{{range $key, $value := .Specs}}<li>{{$key}}: {{$value}}</li>{{end}}</ul>{{end}}
      </li>
      {{end}}</ul>
    </div>

    <div class="section">
      <h3>Budget</h3>
      <table>
        <tr>
          <td>Total Budget:</td>
          <td>{{.Currency}} {{.BudgetTotal}}</td>
        </tr>
      </table>
    </div>

    <div class="section">
      <h3>Delivery Terms</h3>
      <table>
        <tr>
          <td>Required by:</td>
          <td>{{.Deadline}}</td>
        </tr>
        <tr>
          <td>Lead Time:</td>
          <td>{{.LeadTime}} days</td>
        </tr>
      </table>
    </div>

    <div class="section">
      <h3>Payment Terms</h3>
      <p>Net {{.NetDays}}</p>
    </div>

    <div class="section">
      <h3>Warranty Requirements</h3>
      <p>Minimum {{.WarrantyPeriod}} months {{.WarrantyCoverage}}</p>
    </div>

    <div class="section">
      <p>Please submit your proposal by <strong>{{.SubmitBy}}</strong> with:</p>
      <ul>
        <li>Itemized pricing</li>
        <li>Delivery timeline and conditions</li>
        <li>Warranty and support terms</li>
        <li>Any compliance certifications</li>
      </ul>
    </div>

    <p>Best regards,<br>Procurement Team</p>
  </div>
</body>
</html>
`))

type rfpEmailData struct {
	Title            string
	Items            []models.SpecItem
	Currency         string
	BudgetTotal      string
	Deadline         string
	LeadTime         string
	NetDays          int
	WarrantyPeriod   int
	WarrantyCoverage string
	SubmitBy         string
}

// RenderRFPEmailHTML renders the HTML body for an outbound RFP email, with
// fallback placeholders where the extracted specifications left gaps.
func RenderRFPEmailHTML(rfp *models.RFP) (string, error) {
	specs := rfp.Specifications

	data := rfpEmailData{
		Title:            rfp.Title,
		Items:            specs.Items,
		Currency:         specs.Budget.Currency,
		BudgetTotal:      "N/A",
		Deadline:         "TBD",
		LeadTime:         "N/A",
		NetDays:          specs.PaymentTerms.NetDays,
		WarrantyPeriod:   specs.Warranty.Period,
		WarrantyCoverage: specs.Warranty.Coverage,
		SubmitBy:         "the specified date",
	}
	if data.Currency == "" {
		data.Currency = "USD"
	}
	if specs.Budget.Total > 0 {
		p := message.NewPrinter(language.English)
		data.BudgetTotal = p.Sprintf("%.0f", specs.Budget.Total)
	}
	if specs.DeliveryTerms.Deadline != "" {
		data.Deadline = specs.DeliveryTerms.Deadline
		data.SubmitBy = specs.DeliveryTerms.Deadline
	}
	if specs.DeliveryTerms.LeadTimeDays > 0 {
		data.LeadTime = strconv.Itoa(specs.DeliveryTerms.LeadTimeDays)
	}
	if data.NetDays == 0 {
		data.NetDays = 30
	}
	if data.WarrantyPeriod == 0 {
		data.WarrantyPeriod = 12
	}
	if data.WarrantyCoverage == "" {
		data.WarrantyCoverage = "hardware coverage"
	}

	var buf bytes.Buffer
	if err := rfpEmailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering rfp email template: %w", err)
	}
	return buf.String(), nil
}
