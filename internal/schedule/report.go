package schedule

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// SummaryRow is one plant of the filtered schedule as shown in the reports.
type SummaryRow struct {
	Central string
	Type    string
	Agent   string
	Total   float64
}

// Summarize extracts the report columns from the final frame.
func Summarize(df dataframe.DataFrame) ([]SummaryRow, error) {
	if df.Nrow() == 0 {
		return nil, nil
	}
	central := df.Col(ColCentral).Records()
	typ := df.Col(ColType).Records()
	agent := df.Col(ColAgent).Records()
	total := df.Col(ColSum).Records()
	if df.Err != nil {
		return nil, df.Err
	}

	out := make([]SummaryRow, len(central))
	for i := range central {
		v, err := strconv.ParseFloat(total[i], 64)
		if err != nil {
			return nil, fmt.Errorf("schedule: %s row %d: %w", ColSum, i, err)
		}
		out[i] = SummaryRow{Central: central[i], Type: typ[i], Agent: agent[i], Total: v}
	}
	return out, nil
}

var summaryHeader = []string{"Central", "Tipo", "Agente", "Suma horizontal"}

// WriteXLSX renders the summary as a one-sheet workbook.
func WriteXLSX(w io.Writer, rows []SummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "resumen"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("schedule: xlsx sheet: %w", err)
	}

	header := make([]any, len(summaryHeader))
	for i, h := range summaryHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("schedule: xlsx header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := []any{r.Central, r.Type, r.Agent, r.Total}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("schedule: xlsx row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("schedule: xlsx write: %w", err)
	}
	return nil
}

// WritePDF renders the summary as a single table. Text goes through the
// cp1252 translator so accented names print correctly with core fonts.
func WritePDF(w io.Writer, title string, rows []SummaryRow) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(title))
	pdf.Ln(10)

	widths := []float64{45, 20, 80, 35}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range summaryHeader {
		pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	var total float64
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, tr(r.Central), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(r.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(r.Agent), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", r.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += r.Total
	}
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", total), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("schedule: pdf write: %w", err)
	}
	return nil
}
