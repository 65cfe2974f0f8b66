package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dealstack/dealstack/internal/model"
)

// Column describes one renderable deal attribute. The historical UI carried
// a dozen near-identical hand-written table configurations; they converge
// here into a single schema consumed by every output format.
type Column struct {
	Extract func(*model.Deal) string
	Title   string
	Width   int
}

// DefaultColumns returns the standard deal table layout.
func DefaultColumns() []Column {
	return []Column{
		{Title: "Retailer", Width: 20, Extract: func(d *model.Deal) string { return d.Retailer }},
		{Title: "Prov", Width: 5, Extract: func(d *model.Deal) string { return d.Province }},
		{Title: "Brand", Width: 14, Extract: func(d *model.Deal) string { return d.Brand }},
		{Title: "Name", Width: 34, Extract: func(d *model.Deal) string { return d.Name }},
		{Title: "Price", Width: 8, Extract: FormatPrice},
		{Title: "Save", Width: 10, Extract: func(d *model.Deal) string { return d.SaveText }},
		{Title: "Points", Width: 8, Extract: func(d *model.Deal) string { return FormatPoints(d.LoyaltyPoints) }},
		{Title: "Expiry", Width: 12, Extract: func(d *model.Deal) string { return d.ExpiryLabel }},
	}
}

// FormatPrice renders a price as dollars, or blank when unknown.
func FormatPrice(d *model.Deal) string {
	if d.Price == nil {
		return ""
	}
	return fmt.Sprintf("$%.2f", *d.Price)
}

// FormatPoints renders a points value with thousands separators, or blank
// for zero.
func FormatPoints(points int) string {
	if points == 0 {
		return ""
	}
	s := fmt.Sprintf("%d", points)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RenderTable writes the deals as a styled text table.
func RenderTable(w io.Writer, deals []model.Deal, columns []Column) error {
	var header strings.Builder
	for _, col := range columns {
		header.WriteString(TableCellStyle.Render(pad(col.Title, col.Width)))
	}
	if _, err := fmt.Fprintln(w, TableHeaderStyle.Render(header.String())); err != nil {
		return err
	}

	for i := range deals {
		var row strings.Builder
		for _, col := range columns {
			row.WriteString(TableCellStyle.Render(pad(col.Extract(&deals[i]), col.Width)))
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("%d deals", len(deals)))); err != nil {
		return err
	}
	return nil
}

// RenderJSON writes the deals as a JSON array of their pass-through records
// augmented with the canonical fields, so consumers see the same shape the
// source provided plus the derived columns.
func RenderJSON(w io.Writer, deals []model.Deal) error {
	out := make([]map[string]any, len(deals))
	for i := range deals {
		d := &deals[i]
		record := make(map[string]any, len(d.Extra)+6)
		for k, v := range d.Extra {
			record[k] = v
		}
		record["Retailer"] = d.Retailer
		record["Province"] = d.Province
		record["Brand"] = d.Brand
		record["Name"] = d.Name
		record["Save_Numeric"] = d.SaveNumeric
		record["PC Pts"] = d.LoyaltyPoints
		record["Valid From"] = d.ValidFrom
		record["Valid To"] = d.ValidTo
		record["Expiry"] = d.ExpiryLabel
		out[i] = record
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// RenderCSV writes the deals using the given column schema.
func RenderCSV(w io.Writer, deals []model.Deal, columns []Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Title
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for i := range deals {
		for j, col := range columns {
			row[j] = col.Extract(&deals[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
