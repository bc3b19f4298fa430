// Package pdf renders listing agreements as A4 PDF documents. The layout is
// drawn with absolute coordinates (points), matching the printed form the
// brokerage uses.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

const (
	marginLeft   = 40.0
	pageWidth    = 595.28 // A4 width in points
	contentWidth = pageWidth - marginLeft*2
)

// Brand colors used on the printed form.
var (
	colorOrange = [3]int{255, 127, 80}
	colorBlack  = [3]int{0, 0, 0}
	colorInk    = [3]int{30, 58, 138} // filled-in values
)

// FetchFunc resolves a URL to raw image bytes. Injected so signature images
// can come from the blob store in production and from stubs in tests.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Renderer draws listing agreements. A failed signature-image fetch skips
// that image and keeps rendering.
type Renderer struct {
	fetch  FetchFunc
	logger logging.Logger
}

func NewRenderer(fetch FetchFunc, logger logging.Logger) *Renderer {
	return &Renderer{fetch: fetch, logger: logger}
}

// RenderAgreement produces the complete agreement PDF for the document.
func (r *Renderer) RenderAgreement(ctx context.Context, noc *models.NOC) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	y := 40.0
	y = r.renderHeader(doc, y)
	y = r.renderOwners(doc, y, noc)
	y = r.renderPropertyDetails(doc, y, noc)
	y = r.renderTerms(doc, y, noc)
	r.renderSignatures(ctx, doc, y, noc)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(doc *fpdf.Fpdf, text string, x, y float64, style string, size float64) {
	doc.SetFont("Helvetica", style, size)
	doc.SetTextColor(colorBlack[0], colorBlack[1], colorBlack[2])
	doc.Text(x, y+size, text)
}

// drawInput renders a filled-in value in the typewriter style used for
// handwritten fields on the form.
func drawInput(doc *fpdf.Fpdf, text string, x, y float64) {
	if text == "" {
		return
	}
	doc.SetFont("Courier", "B", 11)
	doc.SetTextColor(colorInk[0], colorInk[1], colorInk[2])
	doc.Text(x, y+9, text)
}

func drawSectionHeader(doc *fpdf.Fpdf, y float64, title string) float64 {
	doc.SetFillColor(colorOrange[0], colorOrange[1], colorOrange[2])
	doc.Rect(marginLeft, y, contentWidth, 20, "F")
	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(255, 255, 255)
	doc.Text(marginLeft+10, y+14, title)
	return y + 25
}

func drawLine(doc *fpdf.Fpdf, x1, y, x2 float64) {
	doc.SetDrawColor(colorBlack[0], colorBlack[1], colorBlack[2])
	doc.SetLineWidth(0.5)
	doc.Line(x1, y, x2, y)
}

func drawCheckbox(doc *fpdf.Fpdf, x, y float64, label string, checked bool) {
	doc.SetDrawColor(colorBlack[0], colorBlack[1], colorBlack[2])
	doc.SetLineWidth(1)
	doc.Circle(x, y, 6, "D")
	if checked {
		doc.SetDrawColor(colorInk[0], colorInk[1], colorInk[2])
		doc.SetLineWidth(1.5)
		doc.Line(x-3, y, x-1, y+3)
		doc.Line(x-1, y+3, x+4, y-3)
	}
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(colorBlack[0], colorBlack[1], colorBlack[2])
	doc.Text(x+15, y+4, label)
}

// checkPageBreak starts a new page when the next block would run off the
// bottom and returns the cursor for the (possibly new) page.
func checkPageBreak(doc *fpdf.Fpdf, y, needed float64) float64 {
	_, pageH := doc.GetPageSize()
	if y+needed > pageH-50 {
		doc.AddPage()
		return 50
	}
	return y
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

func ordinal(n int) string {
	suffixes := []string{"th", "st", "nd", "rd"}
	v := n % 100
	if v >= 4 && v <= 20 {
		return "th"
	}
	if d := v % 10; d >= 1 && d <= 3 {
		return suffixes[d]
	}
	return "th"
}

func (r *Renderer) renderHeader(doc *fpdf.Fpdf, y float64) float64 {
	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(colorBlack[0], colorBlack[1], colorBlack[2])
	doc.Text(marginLeft, y+14, "Mateluxy Real Estate Broker L.L.C")
	y += 20

	doc.SetFont("Helvetica", "", 9)
	doc.Text(marginLeft, y+9, "Tel: +971 4 572 5420 Add: 601 Bay Square 13, Business Bay, Dubai, UAE.")
	y += 12
	doc.Text(marginLeft, y+9, "PO. Box: 453467 Email: info@mateluxy.com")
	y += 12
	doc.Text(marginLeft, y+9, "Website: www.mateluxy.com")
	y += 25

	doc.SetFont("Helvetica", "B", 12)
	doc.Text(marginLeft, y+12, "NOC / LISTING AGREEMENT/ AGREEMENT BETWEEN OWNER & BROKER")
	return y + 25
}

func (r *Renderer) renderOwners(doc *fpdf.Fpdf, y float64, noc *models.NOC) float64 {
	y = drawSectionHeader(doc, y, "LANDLORD / OWNER DETAILS")
	y += 5

	if len(noc.Owners) == 0 {
		drawText(doc, "No owners details provided.", marginLeft, y+5, "", 10)
		return y + 20
	}

	for i, owner := range noc.Owners {
		y = checkPageBreak(doc, y, 80)

		drawText(doc, fmt.Sprintf("%d%s Owner Name:", i+1, ordinal(i+1)), marginLeft, y+5, "B", 10)
		drawLine(doc, marginLeft+100, y+15, pageWidth-marginLeft)
		drawInput(doc, owner.Name, marginLeft+110, y+2)
		y += 20

		drawText(doc, "ID/Passport:", marginLeft, y+5, "B", 10)
		drawLine(doc, marginLeft+80, y+15, marginLeft+250)
		drawInput(doc, owner.EmiratesID, marginLeft+90, y+2)

		drawText(doc, "Mobile:", marginLeft+260, y+5, "B", 10)
		drawLine(doc, marginLeft+310, y+15, pageWidth-marginLeft)
		if owner.Phone != "" {
			drawInput(doc, owner.CountryCode+" "+owner.Phone, marginLeft+320, y+2)
		}
		y += 20

		drawText(doc, "Issue Date:", marginLeft, y+5, "B", 10)
		drawLine(doc, marginLeft+80, y+15, marginLeft+250)
		drawInput(doc, formatDate(owner.IssueDate), marginLeft+90, y+2)

		drawText(doc, "Expiry Date:", marginLeft+260, y+5, "B", 10)
		drawLine(doc, marginLeft+330, y+15, pageWidth-marginLeft)
		drawInput(doc, formatDate(owner.ExpiryDate), marginLeft+340, y+2)
		y += 25
	}

	return y
}

type labeledField struct {
	label string
	value string
}

func (r *Renderer) renderPropertyDetails(doc *fpdf.Fpdf, y float64, noc *models.NOC) float64 {
	y = checkPageBreak(doc, y, 250)
	y = drawSectionHeader(doc, y, "PROPERTY DETAILS")
	y += 15

	pType := noc.PropertyType
	drawCheckbox(doc, marginLeft+40, y, "Villa", strings.EqualFold(pType, "villa"))
	drawCheckbox(doc, marginLeft+150, y, "Apartment", strings.EqualFold(pType, "apartment"))
	drawCheckbox(doc, marginLeft+260, y, "Office", strings.EqualFold(pType, "office"))
	drawCheckbox(doc, marginLeft+370, y, "Townhouse", strings.EqualFold(pType, "townhouse"))
	y += 20

	drawCheckbox(doc, marginLeft+40, y, "Vacant", false)
	drawCheckbox(doc, marginLeft+150, y, "Tenanted", false)
	drawCheckbox(doc, marginLeft+260, y, "Furnished", false)
	drawCheckbox(doc, marginLeft+370, y, "Unfurnished", false)
	y += 20

	drawText(doc, "Vacating Date:", marginLeft+30, y+5, "", 10)
	drawLine(doc, marginLeft+110, y+15, marginLeft+300)
	y += 25

	drawText(doc, "Building / Project name :", marginLeft, y+5, "B", 10)
	drawLine(doc, marginLeft, y+15, pageWidth-marginLeft)
	drawInput(doc, noc.BuildingProjectName, marginLeft+130, y+2)
	y += 25

	fullRows := []labeledField{
		{label: "Property Number"},
		{label: "Location", value: noc.Location},
		{label: "Community", value: noc.Community},
		{label: "Street Name", value: noc.StreetName},
	}
	for _, f := range fullRows {
		drawText(doc, f.label, marginLeft, y+5, "B", 10)
		drawText(doc, ":", marginLeft+100, y+5, "B", 10)
		drawLine(doc, marginLeft, y+15, pageWidth-marginLeft)
		drawInput(doc, f.value, marginLeft+110, y+2)
		y += 25
	}

	halfRows := [][2]labeledField{
		{{label: "BUA (SQFT)", value: noc.BuildUpArea}, {label: "Plot (SQFT)", value: noc.PlotArea}},
		{{label: "Bedrooms", value: noc.Bedrooms}, {label: "Bathrooms", value: noc.Bathrooms}},
		{{label: "Rental Amount", value: noc.RentalAmount}, {label: "Parking", value: noc.Parking}},
	}
	for _, row := range halfRows {
		drawText(doc, row[0].label, marginLeft, y+5, "B", 10)
		drawText(doc, ":", marginLeft+100, y+5, "B", 10)
		drawLine(doc, marginLeft+110, y+15, marginLeft+250)
		drawInput(doc, row[0].value, marginLeft+120, y+2)

		drawText(doc, row[1].label, marginLeft+260, y+5, "B", 10)
		drawText(doc, ":", marginLeft+330, y+5, "B", 10)
		drawLine(doc, marginLeft+340, y+15, pageWidth-marginLeft)
		drawInput(doc, row[1].value, marginLeft+350, y+2)
		y += 25
	}

	drawText(doc, "Sale Amount", marginLeft, y+5, "B", 10)
	drawText(doc, ":", marginLeft+100, y+5, "B", 10)
	drawLine(doc, marginLeft+110, y+15, pageWidth-marginLeft)
	drawInput(doc, noc.SaleAmount, marginLeft+120, y+2)
	return y + 35
}

func (r *Renderer) renderTerms(doc *fpdf.Fpdf, y float64, noc *models.NOC) float64 {
	y = checkPageBreak(doc, y, 150)
	y = drawSectionHeader(doc, y, "TERMS AND CONDITIONS")
	y += 10

	drawText(doc, "The landlord / legal representative has agreed to appoint", marginLeft, y, "B", 9)
	drawText(doc, "Mateluxy Real Estate Broker L.L.C", pageWidth-marginLeft-180, y, "", 10)
	y += 15

	drawCheckbox(doc, marginLeft+40, y, "EXCLUSIVE", noc.AgreementType == "exclusive")
	drawCheckbox(doc, marginLeft+150, y, "NON-EXCLUSIVE", noc.AgreementType == "non-exclusive")
	y += 25

	drawText(doc, "Broker to list and advertise the above property for a period till", marginLeft, y, "B", 9)
	drawLine(doc, marginLeft+350, y+10, marginLeft+400)
	drawText(doc, "/", marginLeft+405, y, "", 10)
	drawLine(doc, marginLeft+410, y+10, marginLeft+460)
	drawText(doc, "/", marginLeft+465, y, "", 10)
	drawLine(doc, marginLeft+470, y+10, pageWidth-marginLeft)
	if noc.AgreementDate != nil {
		ad := noc.AgreementDate
		drawInput(doc, fmt.Sprintf("%d", ad.Day()), marginLeft+360, y+2)
		drawInput(doc, fmt.Sprintf("%d", int(ad.Month())), marginLeft+420, y+2)
		drawInput(doc, fmt.Sprintf("%d", ad.Year()), marginLeft+480, y+2)
	}
	y += 20

	drawCheckbox(doc, marginLeft+40, y, "1 MONTH", noc.PeriodMonths == 1)
	drawCheckbox(doc, marginLeft+150, y, "2 MONTH", noc.PeriodMonths == 2)
	drawCheckbox(doc, marginLeft+230, y, "3 MONTH", noc.PeriodMonths == 3)
	drawCheckbox(doc, marginLeft+320, y, "6 MONTH", noc.PeriodMonths == 6)
	y += 30

	y = checkPageBreak(doc, y, 80)
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(colorBlack[0], colorBlack[1], colorBlack[2])
	doc.SetXY(marginLeft, y)
	doc.MultiCell(contentWidth, 11,
		"I the undersigned confirm that I am the owner of the above property and / or have the legal authority to sign on behalf of the named owner(s).",
		"", "J", false)
	y += 25
	doc.SetXY(marginLeft, y)
	doc.MultiCell(contentWidth, 11,
		"Should this property be subject to an offer I/we will notify the brokerage of this. This Agreement may be terminated by either party at any time upon seven (7) days written notice to the other party",
		"", "J", false)
	return y + 40
}

func (r *Renderer) renderSignatures(ctx context.Context, doc *fpdf.Fpdf, y float64, noc *models.NOC) {
	y = checkPageBreak(doc, y, 80)
	drawText(doc, "SIGNATURES", marginLeft, y, "B", 12)
	y += 20

	for i, owner := range noc.Owners {
		y = checkPageBreak(doc, y, 60)

		drawText(doc, fmt.Sprintf("%d%s Owner Name:", i+1, ordinal(i+1)), marginLeft, y, "B", 9)
		drawLine(doc, marginLeft+100, y+10, marginLeft+220)
		drawInput(doc, owner.Name, marginLeft+110, y-2)

		drawText(doc, "Signature:", marginLeft+230, y, "B", 9)
		drawLine(doc, marginLeft+280, y+10, marginLeft+400)

		if owner.SignatureURL != nil && *owner.SignatureURL != "" {
			r.embedSignature(ctx, doc, *owner.SignatureURL, i, marginLeft+290, y-25)
		}

		drawText(doc, "Date:", marginLeft+410, y, "B", 9)
		drawLine(doc, marginLeft+440, y+10, pageWidth-marginLeft)
		drawInput(doc, formatDate(owner.SignatureDate), marginLeft+450, y-2)

		y += 50
	}
}

// embedSignature draws one signature image on its line. Fetch or decode
// failures are logged and skipped so one broken asset cannot fail the whole
// document.
func (r *Renderer) embedSignature(ctx context.Context, doc *fpdf.Fpdf, url string, idx int, x, y float64) {
	data, err := r.fetch(ctx, url)
	if err != nil {
		r.logger.Warn(ctx, "signature image fetch failed", "url", url, "error", err)
		return
	}

	var imgType string
	switch http.DetectContentType(data) {
	case "image/png":
		imgType = "PNG"
	case "image/jpeg":
		imgType = "JPG"
	case "image/gif":
		imgType = "GIF"
	default:
		r.logger.Warn(ctx, "unsupported signature image type", "url", url)
		return
	}

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		r.logger.Warn(ctx, "undecodable signature image", "url", url, "error", err)
		return
	}

	name := fmt.Sprintf("signature-%d", idx)
	opts := fpdf.ImageOptions{ImageType: imgType}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	doc.ImageOptions(name, x, y, 80, 35, false, opts, 0, "")
	if doc.Err() {
		r.logger.Warn(ctx, "signature image embed failed", "url", url, "error", doc.Error())
		doc.ClearError()
	}
}

