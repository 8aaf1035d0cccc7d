package reports

import (
	"bytes"
	"fmt"

	"hseinspect/internal/utils"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfMargin     = 15.0
	pdfLineHeight = 5.5
	pdfLabelWidth = 70.0
	pdfValueWidth = 110.0
)

type pdfWriter struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	pageHeight float64
}

// RenderPDF renders the report as an A4 PDF document.
func RenderPDF(report Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	w := &pdfWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
	_, w.pageHeight = pdf.GetPageSize()

	pdf.SetTitle(report.Title, true)
	pdf.SetCreator("hseinspect", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(156, 163, 175)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	w.header(report)

	w.heading("Summary")
	for _, row := range report.Summary() {
		w.row(row.Label, row.Value)
	}

	if report.HasTemplate() {
		for _, section := range report.Sections {
			w.heading(section.Title)
			if section.Description != "" {
				w.note(section.Description)
			}
			for _, row := range section.Rows {
				w.row(row.Label, row.Value)
			}
		}
	} else {
		w.heading("Responses")
		if len(report.Flat) == 0 {
			w.note("No responses recorded")
		}
		for _, row := range report.Flat {
			w.row(row.Label, row.Value)
		}
	}

	pdf.Ln(6)
	w.note(photoCount(report.PhotoCount) + " attached")

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) text(s string) string {
	s, _ = utils.CleanUTF8(s)
	return w.tr(s)
}

func (w *pdfWriter) header(report Report) {
	pdf := w.pdf
	pdf.SetFont(pdfFont, "B", 18)
	pdf.SetTextColor(31, 41, 55)
	pdf.MultiCell(0, 8, w.text(report.Title), "", "L", false)

	pdf.SetFont(pdfFont, "", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 5, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (w *pdfWriter) heading(title string) {
	pdf := w.pdf
	w.ensureSpace(14)
	pdf.Ln(4)
	pdf.SetFont(pdfFont, "B", 13)
	pdf.SetTextColor(31, 41, 55)
	pdf.SetDrawColor(234, 88, 12)
	pdf.CellFormat(0, 8, w.text(title), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetDrawColor(229, 231, 235)
}

func (w *pdfWriter) note(text string) {
	pdf := w.pdf
	pdf.SetFont(pdfFont, "I", 9)
	pdf.SetTextColor(75, 85, 99)
	pdf.MultiCell(0, pdfLineHeight, w.text(text), "", "L", false)
}

func (w *pdfWriter) row(label, value string) {
	pdf := w.pdf
	label, value = w.text(label), w.text(value)

	pdf.SetFont(pdfFont, "B", 10)
	labelLines := len(pdf.SplitText(label, pdfLabelWidth-2))
	pdf.SetFont(pdfFont, "", 10)
	valueLines := len(pdf.SplitText(value, pdfValueWidth-2))

	height := float64(max(labelLines, valueLines, 1))*pdfLineHeight + 2
	w.ensureSpace(height)

	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetFillColor(249, 250, 251)
	pdf.Rect(x, y, pdfLabelWidth, height, "FD")
	pdf.Rect(x+pdfLabelWidth, y, pdfValueWidth, height, "D")

	pdf.SetTextColor(31, 41, 55)
	pdf.SetFont(pdfFont, "B", 10)
	pdf.SetXY(x+1, y+1)
	pdf.MultiCell(pdfLabelWidth-2, pdfLineHeight, label, "", "L", false)

	pdf.SetFont(pdfFont, "", 10)
	pdf.SetXY(x+pdfLabelWidth+1, y+1)
	pdf.MultiCell(pdfValueWidth-2, pdfLineHeight, value, "", "L", false)

	pdf.SetXY(x, y+height)
}

func (w *pdfWriter) ensureSpace(height float64) {
	if w.pdf.GetY()+height > w.pageHeight-pdfMargin-8 {
		w.pdf.AddPage()
	}
}
