package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	darkGrey  = &props.Color{Red: 33, Green: 37, Blue: 41}
	midGrey   = &props.Color{Red: 100, Green: 100, Blue: 100}
	white     = &props.Color{Red: 255, Green: 255, Blue: 255}
	draftRed  = &props.Color{Red: 220, Green: 53, Blue: 69}
	stripeBg  = &props.Color{Red: 248, Green: 249, Blue: 250}
	summaryBg = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// GenerateQuotePDF creates the quotation document for a job using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateQuotePDF(data *QuoteData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addQuoteInfo(m, data)
	addQuoteParties(m, data)
	addQuoteScopeTable(m, data)
	addQuoteTotals(m, data)
	addQuoteTerms(m, data)
	addQuoteAcceptance(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuoteHeader adds the DRAFT marker, company block and QUOTATION title.
func addQuoteHeader(m core.Maroto, data *QuoteData) {
	if data.Draft {
		m.AddRows(
			row.New(12).Add(
				col.New(12).Add(text.New("DRAFT", props.Text{
					Size:  20,
					Style: fontstyle.Bold,
					Align: align.Center,
					Color: draftRed,
				})),
			),
		)
	}

	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(5).Add(
				text.New("QUOTATION", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: darkGrey,
				}),
			),
		),
	)

	small := props.Text{Size: 8, Align: align.Left, Color: midGrey}
	if data.CompanyABN != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New("ABN: "+data.CompanyABN, small))))
	}
	if data.CompanyAddress != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(data.CompanyAddress, small))))
	}
	if data.CompanyContact != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(data.CompanyContact, small))))
	}

	m.AddRows(row.New(4))
}

// addQuoteInfo adds quote number, dates, job reference and PO number.
func addQuoteInfo(m core.Maroto, data *QuoteData) {
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: midGrey}
	value := props.Text{Size: 8, Align: align.Left}

	info := []struct{ label, value string }{
		{"Quote Number:", data.QuoteNumber},
		{"Quote Date:", data.QuoteDate},
		{"Valid Until:", data.ValidUntil},
		{"Job Reference:", data.JobNumber},
		{"PO Number:", data.PONumber},
	}
	for _, in := range info {
		if in.value == "" {
			continue
		}
		m.AddRows(
			row.New(6).Add(
				col.New(3).Add(text.New(in.label, label)),
				col.New(9).Add(text.New(in.value, value)),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addQuoteParties adds customer and job detail blocks side by side.
func addQuoteParties(m core.Maroto, data *QuoteData) {
	sectionLabel := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: midGrey}
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	value := props.Text{Size: 8, Align: align.Left}
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 243, Blue: 239}}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("CUSTOMER DETAILS", sectionLabel)).WithStyle(headerCell),
			col.New(6).Add(text.New("JOB DETAILS", sectionLabel)).WithStyle(headerCell),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(data.CustomerName, bold)),
			col.New(6).Add(text.New(data.JobTitle, bold)),
		),
	)
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(fmtField("ABN", data.CustomerABN), value)),
			col.New(6).Add(text.New(data.JobType, value)),
		),
	)
	if data.CustomerAddress != "" {
		m.AddRows(row.New(6).Add(col.New(6).Add(text.New(data.CustomerAddress, value))))
	}

	if data.Description != "" {
		m.AddRows(row.New(3))
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("DESCRIPTION", sectionLabel))))
		m.AddRows(row.New(7).Add(col.New(12).Add(text.New(data.Description, value))))
	}

	m.AddRows(row.New(4))
}

// addQuoteScopeTable adds the scope of work table: one row per area section.
func addQuoteScopeTable(m core.Maroto, data *QuoteData) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New("Scope of Work", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
		),
	)

	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right, Color: white}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: darkGrey}

	m.AddRows(
		row.New(8).Add(
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Area (m²)", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Depth (mm)", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Tonnage", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Amount (ex GST)", headerText)).WithStyle(&headerCell),
		),
	)

	if len(data.Lines) == 0 {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(text.New("No items specified", props.Text{Size: 8, Align: align.Center, Color: midGrey})),
			),
		)
		m.AddRows(row.New(2))
		return
	}

	bodyLeft := props.Text{Size: 7, Align: align.Left}
	bodyRight := props.Text{Size: 7, Align: align.Right}

	for i, line := range data.Lines {
		desc := line.LineTitle()
		if line.Notes != "" {
			desc += "\n" + line.Notes
		}

		cols := []core.Col{
			col.New(5).Add(text.New(desc, bodyLeft)),
			col.New(2).Add(text.New(line.AreaSqm.StringFixed(2), bodyRight)),
			col.New(1).Add(text.New(line.DepthMm.String(), bodyRight)),
			col.New(2).Add(text.New(line.Tonnage.StringFixed(2), bodyRight)),
			col.New(2).Add(text.New(FormatAUD(line.AmountExGST), bodyRight)),
		}
		if i%2 == 1 {
			for _, c := range cols {
				c.WithStyle(&props.Cell{BackgroundColor: stripeBg})
			}
		}

		height := 7.0
		if line.Notes != "" {
			height = 11
		}
		m.AddRows(row.New(height).Add(cols...))
	}

	m.AddRows(row.New(2))
}

// addQuoteTotals adds the subtotal, GST and total rows.
func addQuoteTotals(m core.Maroto, data *QuoteData) {
	summaryCell := &props.Cell{BackgroundColor: summaryBg}
	labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(7).Add(
			col.New(9).Add(text.New("Total Tonnage:", labelStyle)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatTonnage(data.TotalTonnage), valueStyle)).WithStyle(summaryCell),
		),
		row.New(7).Add(
			col.New(9).Add(text.New("Subtotal (ex GST):", labelStyle)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatAUD(data.SubtotalEx), valueStyle)).WithStyle(summaryCell),
		),
		row.New(7).Add(
			col.New(9).Add(text.New("GST (10%):", labelStyle)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatAUD(data.GSTAmount), valueStyle)).WithStyle(summaryCell),
		),
	)

	grandCell := &props.Cell{BackgroundColor: darkGrey}
	grand := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: white}
	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("TOTAL (inc GST):", grand)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatAUD(data.TotalInc), grand)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(4))
}

// addQuoteTerms adds the numbered terms and conditions.
func addQuoteTerms(m core.Maroto, data *QuoteData) {
	if len(data.Terms) == 0 {
		return
	}

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New("Terms and Conditions:", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: darkGrey})),
		),
	)
	termStyle := props.Text{Size: 7, Align: align.Left}
	for i, term := range data.Terms {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(fmt.Sprintf("%d. %s", i+1, term), termStyle))))
	}

	m.AddRows(row.New(3))
}

// addQuoteAcceptance adds the customer acceptance block.
func addQuoteAcceptance(m core.Maroto) {
	m.AddRows(row.New(8))

	lineStyle := props.Text{Size: 8, Align: align.Left, Color: midGrey}
	labelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: midGrey}

	m.AddRows(
		row.New(6).Add(col.New(6).Add(text.New("Accepted by (Customer):", labelStyle))),
		row.New(8).Add(col.New(6).Add(text.New("____________________________", lineStyle))),
		row.New(6).Add(col.New(6).Add(text.New("Name: _________________________", lineStyle))),
		row.New(6).Add(col.New(6).Add(text.New("Date: __________________________", lineStyle))),
	)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
