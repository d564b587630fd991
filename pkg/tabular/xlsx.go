package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

const sheetName = "Tasks"

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", model.ErrUnsupportedFormat)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func writeXLSX(w io.Writer, rows []model.Task) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &model.Columns); err != nil {
		return err
	}
	for i, t := range rows {
		numeric := map[string]any{
			model.ColProgress:  t.Progress,
			model.ColTimeSpent: t.TimeSpent,
			model.ColBudget:    t.Budget,
			model.ColCost:      t.Cost,
		}
		rec := cells(t)
		values := make([]any, len(model.Columns))
		for c, col := range model.Columns {
			if v, ok := numeric[col]; ok {
				values[c] = v
			} else {
				values[c] = rec[c]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}
