package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const quoteSheet = "Quote"

// GenerateQuoteExcel creates a workbook with the same content as the quote
// PDF and returns the file contents as a byte slice. Money and tonnage
// cells hold numbers rounded to 2 decimal places.
func GenerateQuoteExcel(data *QuoteData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, quoteSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through G).
	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 42, 14, 12, 12, 16, 18}
	for i, col := range columns {
		if err := f.SetColWidth(quoteSheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	draftStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "#DC3545"},
	})
	if err != nil {
		return nil, fmt.Errorf("create draft style: %w", err)
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10, Color: "#646464"},
	})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#212529"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}

	qtyFmt := "#,##0.00"
	qtyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &qtyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create qty style: %w", err)
	}

	moneyFmt := "$#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header block ────────────────────────────────────────────────────

	row := 1
	cell := func(col string) string { return fmt.Sprintf("%s%d", col, row) }

	if err := f.MergeCell(quoteSheet, cell("A"), cell("D")); err != nil {
		return nil, fmt.Errorf("merge company: %w", err)
	}
	f.SetCellValue(quoteSheet, cell("A"), sanitizeExcelCell(data.CompanyName))
	f.SetCellStyle(quoteSheet, cell("A"), cell("A"), titleStyle)
	f.SetCellValue(quoteSheet, cell("F"), "QUOTATION")
	f.SetCellStyle(quoteSheet, cell("F"), cell("F"), titleStyle)
	row++

	if data.Draft {
		f.SetCellValue(quoteSheet, cell("F"), "DRAFT")
		f.SetCellStyle(quoteSheet, cell("F"), cell("F"), draftStyle)
	}
	if data.CompanyABN != "" {
		f.SetCellValue(quoteSheet, cell("A"), "ABN: "+data.CompanyABN)
	}
	row++
	if data.CompanyAddress != "" {
		f.SetCellValue(quoteSheet, cell("A"), sanitizeExcelCell(data.CompanyAddress))
		row++
	}
	row++

	info := []struct{ label, value string }{
		{"Quote Number", data.QuoteNumber},
		{"Quote Date", data.QuoteDate},
		{"Valid Until", data.ValidUntil},
		{"Job Reference", data.JobNumber},
		{"PO Number", data.PONumber},
		{"Customer", data.CustomerName},
		{"Customer ABN", data.CustomerABN},
		{"Job", data.JobTitle},
		{"Job Type", data.JobType},
	}
	for _, in := range info {
		if in.value == "" {
			continue
		}
		f.SetCellValue(quoteSheet, cell("A"), in.label)
		if err := f.MergeCell(quoteSheet, cell("A"), cell("B")); err != nil {
			return nil, fmt.Errorf("merge label: %w", err)
		}
		f.SetCellStyle(quoteSheet, cell("A"), cell("A"), labelStyle)
		f.SetCellValue(quoteSheet, cell("C"), sanitizeExcelCell(in.value))
		row++
	}
	row++

	// ── Scope of work ───────────────────────────────────────────────────

	headers := []string{"#", "Description", "Mix", "Area (m²)", "Depth (mm)", "Tonnage", "Amount (ex GST)"}
	for i, h := range headers {
		f.SetCellValue(quoteSheet, cell(columns[i]), h)
	}
	f.SetCellStyle(quoteSheet, cell("A"), cell(lastCol), headerStyle)
	row++

	for _, line := range data.Lines {
		f.SetCellValue(quoteSheet, cell("A"), line.No)
		desc := line.Description
		if line.Notes != "" {
			desc += " (" + line.Notes + ")"
		}
		f.SetCellValue(quoteSheet, cell("B"), sanitizeExcelCell(desc))
		f.SetCellValue(quoteSheet, cell("C"), line.MixLabel)
		f.SetCellValue(quoteSheet, cell("D"), line.AreaSqm.Round(2).InexactFloat64())
		f.SetCellValue(quoteSheet, cell("E"), line.DepthMm.InexactFloat64())
		f.SetCellValue(quoteSheet, cell("F"), line.Tonnage.Round(2).InexactFloat64())
		f.SetCellValue(quoteSheet, cell("G"), RoundMoney(line.AmountExGST).InexactFloat64())

		f.SetCellStyle(quoteSheet, cell("A"), cell("C"), bodyStyle)
		f.SetCellStyle(quoteSheet, cell("D"), cell("F"), qtyStyle)
		f.SetCellStyle(quoteSheet, cell("G"), cell("G"), moneyStyle)
		row++
	}

	// ── Summary ─────────────────────────────────────────────────────────

	row++
	f.SetCellValue(quoteSheet, cell("E"), "Total Tonnage:")
	f.SetCellStyle(quoteSheet, cell("E"), cell("E"), summaryLabelStyle)
	f.SetCellValue(quoteSheet, cell("F"), data.TotalTonnage.Round(2).InexactFloat64())
	row++

	summaries := []struct {
		label string
		value float64
	}{
		{"Subtotal (ex GST):", RoundMoney(data.SubtotalEx).InexactFloat64()},
		{"GST (10%):", RoundMoney(data.GSTAmount).InexactFloat64()},
		{"TOTAL (inc GST):", RoundMoney(data.TotalInc).InexactFloat64()},
	}
	for _, s := range summaries {
		f.SetCellValue(quoteSheet, cell("F"), s.label)
		f.SetCellStyle(quoteSheet, cell("F"), cell("F"), summaryLabelStyle)
		f.SetCellValue(quoteSheet, cell("G"), s.value)
		f.SetCellStyle(quoteSheet, cell("G"), cell("G"), summaryValueStyle)
		row++
	}

	// ── Terms ───────────────────────────────────────────────────────────

	if len(data.Terms) > 0 {
		row++
		f.SetCellValue(quoteSheet, cell("A"), "Terms and Conditions")
		f.SetCellStyle(quoteSheet, cell("A"), cell("A"), labelStyle)
		row++
		for i, term := range data.Terms {
			f.SetCellValue(quoteSheet, cell("A"), fmt.Sprintf("%d. %s", i+1, term))
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
