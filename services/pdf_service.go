package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strconv"

	"backend/models"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// addLabel draws text onto an image at the given position.
func addLabel(img *image.RGBA, x, y int, label string, bold bool) {
	face := inconsolata.Regular8x16
	if bold {
		face = inconsolata.Bold8x16
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

// renderRFPQRLabel renders a QR code encoding the RFP id with a labeled
// strip below it, for scanning printed copies back to the record.
func renderRFPQRLabel(rfp *models.RFP) (*image.RGBA, error) {
	qr, err := qrcode.New(rfp.ID, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}
	qrImg := qr.Image(256)

	const labelHeight = 60
	bounds := qrImg.Bounds()
	combined := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()+labelHeight))
	draw.Draw(combined, combined.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(combined, bounds, qrImg, image.Point{}, draw.Over)

	startY := bounds.Dy() + 20
	addLabel(combined, 10, startY, "RFP ID:", true)
	addLabel(combined, 80, startY, rfp.ID, false)
	addLabel(combined, 10, startY+20, "Status:", true)
	addLabel(combined, 80, startY+20, rfp.Status, false)

	return combined, nil
}

// RenderRFPPDF produces a printable PDF copy of the RFP: header, items
// table, budget, delivery, payment and warranty sections, plus a QR code
// linking back to the record.
func RenderRFPPDF(rfp *models.RFP) ([]byte, error) {
	specs := rfp.Specifications

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Request for Proposal", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, rfp.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "Reference: "+rfp.ID, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(75, 8, "Specifications", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range specs.Items {
		specText := ""
		for k, v := range item.Specs {
			if specText != "" {
				specText += "; "
			}
			specText += k + ": " + v
		}
		pdf.CellFormat(90, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(75, 8, specText, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	currency := specs.Budget.Currency
	if currency == "" {
		currency = "USD"
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Budget", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %s %.2f", currency, specs.Budget.Total), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Delivery Terms", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	deadline := specs.DeliveryTerms.Deadline
	if deadline == "" {
		deadline = "TBD"
	}
	pdf.CellFormat(0, 6, "Required by: "+deadline, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Lead time: %d days", specs.DeliveryTerms.LeadTimeDays), "", 1, "L", false, 0, "")
	if specs.DeliveryTerms.Location != "" {
		pdf.CellFormat(0, 6, "Location: "+specs.DeliveryTerms.Location, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Payment Terms", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	netDays := specs.PaymentTerms.NetDays
	if netDays == 0 {
		netDays = 30
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Net %d", netDays), "", 1, "L", false, 0, "")
	if specs.PaymentTerms.Milestone != "" {
		pdf.CellFormat(0, 6, "Milestone: "+specs.PaymentTerms.Milestone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Warranty Requirements", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	period := specs.Warranty.Period
	if period == 0 {
		period = 12
	}
	coverage := specs.Warranty.Coverage
	if coverage == "" {
		coverage = "hardware coverage"
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Minimum %d months %s", period, coverage), "", 1, "L", false, 0, "")

	qrImg, err := renderRFPQRLabel(rfp)
	if err == nil {
		var imgBuf bytes.Buffer
		if err := jpeg.Encode(&imgBuf, qrImg, &jpeg.Options{Quality: 90}); err == nil {
			opts := gofpdf.ImageOptions{ImageType: "JPG"}
			name := "rfp-qr-" + rfp.ID
			pdf.RegisterImageOptionsReader(name, opts, &imgBuf)
			pdf.ImageOptions(name, 160, 250, 35, 0, false, opts, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
