package exportacao

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetDetail = "Dados"
	sheetBulk   = "Folha de Pagamento"
)

// XLSX builds a one-sheet workbook. Bulk exports get a header row with the
// labels and one row per record; detail exports get a Campo/Valor table with
// one row per field.
func XLSX(req Request) (Payload, error) {
	if err := req.validate(); err != nil {
		return Payload{}, err
	}
	sheet := sheetBulk
	if req.Detail {
		sheet = sheetDetail
	}
	rows := tableRows(req)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return Payload{}, fmt.Errorf("error naming sheet: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return Payload{}, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return Payload{}, fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	cols := len(rows[0])
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return Payload{}, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E7FF"}, Pattern: 1},
	})
	if err != nil {
		return Payload{}, fmt.Errorf("error creating header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return Payload{}, fmt.Errorf("error styling header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", last, 24); err != nil {
		return Payload{}, fmt.Errorf("error sizing columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Payload{}, fmt.Errorf("error writing workbook: %w", err)
	}
	return req.payload(FormatXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes()), nil
}

// tableRows lays the request out as a table, header first. Detail requests
// are transposed into Campo/Valor rows. PDF uses the same layout.
func tableRows(req Request) [][]string {
	if req.Detail {
		s := req.Servidores[0]
		rows := make([][]string, 0, len(req.Schema)+1)
		rows = append(rows, []string{"Campo", "Valor"})
		for _, f := range req.Schema {
			rows = append(rows, []string{f.Label, f.Value(s)})
		}
		return rows
	}
	rows := make([][]string, 0, len(req.Servidores)+1)
	rows = append(rows, req.Schema.Labels())
	for _, s := range req.Servidores {
		rows = append(rows, req.Schema.Values(s))
	}
	return rows
}
