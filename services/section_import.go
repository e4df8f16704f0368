package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SectionColumn describes one column of the area section import sheet.
type SectionColumn struct {
	Key      string
	Label    string
	Required bool
	Example  string
	Help     string
}

// SectionColumns is the column layout shared by the import template and parser.
var SectionColumns = []SectionColumn{
	{Key: "name", Label: "Section Name", Required: true, Example: "Driveway", Help: "Short name for the area"},
	{Key: "area_sqm", Label: "Area (m2)", Required: true, Example: "200", Help: "Square metres, greater than 0"},
	{Key: "depth_mm", Label: "Depth (mm)", Required: true, Example: "40", Help: "Compacted depth, at least 1mm"},
	{Key: "asphalt_mix_type", Label: "Mix Type", Required: true, Example: "AC14 (14mm)", Help: "Mix name or code, e.g. ac14"},
	{Key: "specification", Label: "Specification", Example: "Local Council", Help: "Blank means Local Council"},
	{Key: "custom_specification", Label: "Custom Specification", Help: "Required when Specification is Custom"},
	{Key: "unit_price_per_tonne", Label: "Unit Price ($/t)", Example: "120", Help: "Ex GST, blank means 0"},
	{Key: "notes", Label: "Notes"},
}

// ImportRowError is a single field-level problem on one uploaded row.
// Row is the spreadsheet row number, so the header is row 1.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SectionImport is the outcome of parsing an uploaded sections file.
type SectionImport struct {
	Sections []AreaSection    `json:"sections"`
	Errors   []ImportRowError `json:"errors"`
	Ignored  []string         `json:"ignored_columns"`
}

// Valid reports whether every row parsed and validated.
func (r *SectionImport) Valid() bool { return len(r.Errors) == 0 }

// ParseSectionFile reads area sections from a .csv or .xlsx upload.
// Rows with every cell blank are skipped.
func ParseSectionFile(r io.Reader, fileName string) (*SectionImport, error) {
	var (
		headers []string
		rows    [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		headers, rows, err = parseCSV(r)
	case ".xlsx":
		headers, rows, err = parseExcel(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q: upload a .csv or .xlsx file", filepath.Ext(fileName))
	}
	if err != nil {
		return nil, err
	}

	keys, ignored := mapHeaders(headers)
	for _, col := range SectionColumns {
		if col.Required && !containsKey(keys, col.Key) {
			return nil, fmt.Errorf("missing required column %q", col.Label)
		}
	}

	result := &SectionImport{Ignored: ignored}
	for i, row := range rows {
		rowNum := i + 2
		values := make(map[string]string, len(keys))
		blank := true
		for c, key := range keys {
			if key == "" || c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			values[key] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		s, rowErrs := sectionFromValues(values)
		for _, e := range rowErrs {
			e.Row = rowNum
			result.Errors = append(result.Errors, e)
		}
		if len(rowErrs) == 0 {
			result.Sections = append(result.Sections, s)
		}
	}
	if len(result.Sections) == 0 && len(result.Errors) == 0 {
		return nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return result, nil
}

func sectionFromValues(v map[string]string) (AreaSection, []ImportRowError) {
	var errs []ImportRowError
	s := AreaSection{
		Name:                v["name"],
		CustomSpecification: v["custom_specification"],
		Notes:               v["notes"],
	}

	for _, f := range []struct {
		key string
		dst *decimal.Decimal
	}{
		{"area_sqm", &s.AreaSqm},
		{"depth_mm", &s.DepthMm},
		{"unit_price_per_tonne", &s.UnitPricePerTonne},
	} {
		raw := strings.ReplaceAll(strings.TrimPrefix(v[f.key], "$"), ",", "")
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, ImportRowError{Field: f.key, Message: fmt.Sprintf("%q is not a number", v[f.key])})
			continue
		}
		*f.dst = d
	}

	if m, ok := lookupMix(v["asphalt_mix_type"]); ok {
		s.MixType = m
	} else if v["asphalt_mix_type"] != "" {
		errs = append(errs, ImportRowError{Field: "asphalt_mix_type", Message: fmt.Sprintf("unknown mix type %q", v["asphalt_mix_type"])})
	}
	if spec, ok := lookupSpecification(v["specification"]); ok {
		s.Specification = spec
	} else {
		errs = append(errs, ImportRowError{Field: "specification", Message: fmt.Sprintf("unknown specification %q", v["specification"])})
	}
	if len(errs) > 0 {
		return s, errs
	}

	for field, msg := range ErrorMap(s.Validate()) {
		errs = append(errs, ImportRowError{Field: field, Message: msg})
	}
	sortRowErrors(errs)
	return s, errs
}

// lookupMix accepts either the stored code or the display label.
func lookupMix(raw string) (MixType, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range MixTypes {
		if norm == string(m) || norm == strings.ToLower(m.Label()) {
			return m, true
		}
	}
	return "", false
}

func lookupSpecification(raw string) (Specification, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if norm == "" {
		return DefaultSpecification, true
	}
	for _, s := range Specifications {
		if norm == string(s) || norm == strings.ToLower(s.Label()) {
			return s, true
		}
	}
	return "", false
}

func sortRowErrors(errs []ImportRowError) {
	order := make(map[string]int, len(SectionColumns))
	for i, c := range SectionColumns {
		order[c.Key] = i
	}
	for i := 1; i < len(errs); i++ {
		for j := i; j > 0 && order[errs[j].Field] < order[errs[j-1].Field]; j-- {
			errs[j], errs[j-1] = errs[j-1], errs[j]
		}
	}
}

func parseCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return all[0], all[1:], nil
}

// parseExcel reads headers and data rows from the first sheet.
func parseExcel(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeaders maps uploaded column headers to column keys. Unknown columns
// map to "" and are returned in ignored.
func mapHeaders(headers []string) ([]string, []string) {
	lookup := make(map[string]string, len(SectionColumns)*2)
	for _, c := range SectionColumns {
		lookup[strings.ToLower(c.Label)] = c.Key
		lookup[c.Key] = c.Key
	}

	keys := make([]string, len(headers))
	var ignored []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := lookup[norm]; ok {
			keys[i] = key
		} else if norm != "" {
			ignored = append(ignored, h)
		}
	}
	return keys, ignored
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// GenerateSectionTemplate builds the downloadable .xlsx import template with
// dropdowns for mix type and specification and a hidden instructions sheet.
func GenerateSectionTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sections"
	f.SetSheetName(f.GetSheetName(0), sheet)

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	cols := columnLetters(len(SectionColumns))
	for i, c := range SectionColumns {
		cell := cols[i] + "1"
		label, style := c.Label, optionalStyle
		if c.Required {
			label += " *"
			style = requiredStyle
		}
		f.SetCellValue(sheet, cell, label)
		f.SetCellStyle(sheet, cell, cell, style)
		f.SetColWidth(sheet, cols[i], cols[i], 20)

		var list []string
		switch c.Key {
		case "asphalt_mix_type":
			for _, m := range MixTypes {
				list = append(list, m.Label())
			}
		case "specification":
			for _, s := range Specifications {
				list = append(list, s.Label())
			}
		}
		if list != nil {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", cols[i], cols[i])
			if err := dv.SetDropList(list); err != nil {
				return nil, fmt.Errorf("dropdown for %s: %w", c.Label, err)
			}
			f.AddDataValidation(sheet, dv)
		}
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addSectionInstructions(f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write section template: %w", err)
	}
	return buf.Bytes(), nil
}

func addSectionInstructions(f *excelize.File) {
	sheet := "Instructions"
	f.NewSheet(sheet)

	title, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	header, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(sheet, "A1", "Area Section Import - Instructions")
	f.SetCellStyle(sheet, "A1", "A1", title)

	cols := columnLetters(4)
	for i, h := range []string{"Column", "Required?", "Description", "Example"} {
		cell := cols[i] + "3"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, header)
	}
	for i, c := range SectionColumns {
		row := fmt.Sprintf("%d", i+4)
		req := "Optional"
		if c.Required {
			req = "Required"
		}
		f.SetCellValue(sheet, cols[0]+row, c.Label)
		f.SetCellValue(sheet, cols[1]+row, req)
		f.SetCellValue(sheet, cols[2]+row, c.Help)
		f.SetCellValue(sheet, cols[3]+row, c.Example)
	}
	for i, w := range []float64{24, 12, 40, 20} {
		f.SetColWidth(sheet, cols[i], cols[i], w)
	}
	f.SetSheetVisible(sheet, false)
}

// GenerateImportErrorReport writes row errors to a downloadable .xlsx file.
func GenerateImportErrorReport(errs []ImportRowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", style)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 24)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i], _ = excelize.ColumnNumberToName(i + 1)
	}
	return cols
}
