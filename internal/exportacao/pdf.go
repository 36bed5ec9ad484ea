package exportacao

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 6.0
	pdfFontSize   = 8.0
	pdfCellMargin = 2.0
	// Amostra de linhas usada para medir a largura das colunas.
	pdfWidthSample = 200
)

// PDF draws the export as a single table: header row with the labels and one
// row per record, or a Campo/Valor table for detail exports. Page breaks are
// left to fpdf; the header row is repeated on every page.
func PDF(req Request) (Payload, error) {
	if err := req.validate(); err != nil {
		return Payload{}, err
	}
	rows := tableRows(req)
	head, body := rows[0], rows[1:]

	orientation := "L"
	if req.Detail {
		orientation = "P"
	}
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(req.Title(), true)
	pdf.SetCreator("exportador", true)
	// As fontes padrão usam cp1252, que cobre os acentos do português.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	widths := columnWidths(pdf, tr, head, body)
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 10, tr(req.Title()), "", 1, "L", false, 0, "")
			pdf.Ln(2)
		}
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(79, 70, 229)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range head {
			pdf.CellFormat(widths[i], pdfRowHeight+1, fit(pdf, tr(h), widths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", pdfFontSize)
	})
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.AddPage()

	for n, row := range body {
		pdf.SetFillColor(245, 245, 245)
		for i, v := range row {
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(v), widths[i]), "1", 0, "L", n%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Payload{}, fmt.Errorf("error rendering pdf: %w", err)
	}
	return req.payload(FormatPDF, "application/pdf", buf.Bytes()), nil
}

// columnWidths sizes each column by its widest content and scales the result
// to the printable width.
func columnWidths(pdf *fpdf.Fpdf, tr func(string) string, head []string, body [][]string) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	avail := pageW - left - right

	widths := make([]float64, len(head))
	pdf.SetFont("Helvetica", "B", pdfFontSize)
	for i, h := range head {
		widths[i] = pdf.GetStringWidth(tr(h)) + 2*pdfCellMargin
	}
	pdf.SetFont("Helvetica", "", pdfFontSize)
	for n, row := range body {
		if n >= pdfWidthSample {
			break
		}
		for i, v := range row {
			if w := pdf.GetStringWidth(tr(v)) + 2*pdfCellMargin; w > widths[i] {
				widths[i] = w
			}
		}
	}
	var total float64
	for _, w := range widths {
		total += w
	}
	if total == 0 {
		return widths
	}
	for i := range widths {
		widths[i] = widths[i] * avail / total
	}
	return widths
}

// fit truncates s so that it fits in a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	max := w - 2*pdfCellMargin
	if pdf.GetStringWidth(s) <= max {
		return s
	}
	// s já está em cp1252: um byte por caractere.
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > max {
		s = s[:len(s)-1]
	}
	return s + "..."
}
