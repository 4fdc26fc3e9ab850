// Package pdf renders a form preview as a printable summary: a header
// bar with the form title, the submitting email, and a label/value table of
// every field in schema order.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/parish-services/internal/domain"
)

// GeneratePreviewPDF writes the preview of one form to w.
func GeneratePreviewPDF(p domain.Preview, w io.Writer) error {
	return generate(p, time.Now(), w)
}

func generate(p domain.Preview, at time.Time, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle(p.Title, true)

	// Core fonts are cp1252; names like "Señora" need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	drawPreview(pdf, tr, p, at)
	return pdf.Output(w)
}

func drawPreview(pdf *fpdf.Fpdf, tr func(string) string, p domain.Preview, at time.Time) {
	pageW, pageH := pdf.GetPageSize()
	marginL, marginT, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-30, 7, tr(strings.ToUpper(p.Title)), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 7, "Page "+fmt.Sprint(pdf.PageNo())+" of {nb}", "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13

	// ── Requester ────────────────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "SUBMITTED BY", "LRT", 1, "L", true, 0, "")
	y += 5.5

	colHalf := contentW / 2
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(colHalf, 6, tr(p.Email), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(colHalf, 6, "Prepared "+at.Format("January 2, 2006 3:04 PM"), "RB", 1, "R", false, 0, "")
	y += 10

	// ── Field table ──────────────────────────────────────────────────────────
	labelW := contentW * 0.38
	valueW := contentW - labelW

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(labelW, 7, "Field", "1", 0, "L", true, 0, "")
	pdf.CellFormat(valueW, 7, "Value", "1", 1, "L", true, 0, "")
	y += 7
	pdf.SetTextColor(0, 0, 0)

	lineH := 5.5
	for i, r := range p.Rows {
		pdf.SetFont("Helvetica", "", 8.5)
		lines := wrap(pdf, tr(r.Value), valueW-2)
		rowH := lineH*float64(len(lines)) + 1

		if y+rowH > pageH-marginB-8 {
			pdf.AddPage()
			y = marginT
		}

		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginL, y)
		pdf.SetFont("Helvetica", "B", 8.5)
		pdf.CellFormat(labelW, rowH, tr(r.Label), "1", 0, "L", true, 0, "")

		// Fields the user marked not applicable are shown muted.
		if r.Value == domain.NotApplicableText {
			pdf.SetFont("Helvetica", "I", 8.5)
			pdf.SetTextColor(130, 130, 130)
		} else {
			pdf.SetFont("Helvetica", "", 8.5)
		}
		pdf.Rect(marginL+labelW, y, valueW, rowH, "FD")
		for j, line := range lines {
			pdf.SetXY(marginL+labelW+1, y+0.5+lineH*float64(j))
			pdf.CellFormat(valueW-2, lineH, string(line), "", 0, "L", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		y += rowH
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, "Parish Services request preview", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Not a confirmation. The parish office will contact you.", "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// wrap splits cp1252 text into lines no wider than w. SplitText would decode
// the bytes as UTF-8 again, so it only sees the translated text as bytes.
func wrap(pdf *fpdf.Fpdf, text string, w float64) [][]byte {
	lines := pdf.SplitLines([]byte(text), w)
	if len(lines) == 0 {
		return [][]byte{nil}
	}
	return lines
}
