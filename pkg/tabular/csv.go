package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnsupportedFormat, err)
	}
	return grid, nil
}

func writeCSV(w io.Writer, rows []model.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return err
	}
	for _, t := range rows {
		if err := cw.Write(cells(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
