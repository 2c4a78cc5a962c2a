package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"go-pos/internal/invoices"
)

const invoiceSheet = "Invoices"

// InvoicesXLSX writes one row per summary plus a total row.
func InvoicesXLSX(w io.Writer, summaries []invoices.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return err
	}

	header := []interface{}{"Number", "Date", "Customer", "Total"}
	if err := f.SetSheetRow(invoiceSheet, "A1", &header); err != nil {
		return err
	}

	for i, s := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.Number, s.Date.String(), s.Customer, s.Total.InexactFloat64()}
		if err := f.SetSheetRow(invoiceSheet, cell, &row); err != nil {
			return err
		}
	}

	last := len(summaries) + 1
	totalRow := last + 1
	if err := f.SetCellValue(invoiceSheet, fmt.Sprintf("C%d", totalRow), "TOTAL"); err != nil {
		return err
	}
	if len(summaries) > 0 {
		if err := f.SetCellFormula(invoiceSheet, fmt.Sprintf("D%d", totalRow), fmt.Sprintf("SUM(D2:D%d)", last)); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
