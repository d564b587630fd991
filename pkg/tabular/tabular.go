// Package tabular reads and writes the project table as CSV or XLSX. Both
// formats share the column set in model.Columns and round-trip through
// validate.Normalize.
package tabular

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/validate"
)

// Format is a supported file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	}
	return "", fmt.Errorf("%w: %q (want .csv or .xlsx)", model.ErrUnsupportedFormat, filepath.Base(path))
}

// Read decodes the raw records of a table. Header problems that still leave a
// usable table come back as warnings.
func Read(r io.Reader, f Format) ([]validate.Record, []model.Warning, error) {
	var grid [][]string
	var err error
	switch f {
	case CSV:
		grid, err = readCSV(r)
	case XLSX:
		grid, err = readXLSX(r)
	default:
		return nil, nil, fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, nil, err
	}
	return records(grid)
}

// Write encodes rows with a header line in model.Columns order.
func Write(w io.Writer, f Format, rows []model.Task) error {
	switch f {
	case CSV:
		return writeCSV(w, rows)
	case XLSX:
		return writeXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, f)
}

// Ingest reads and validates a file. It fails as a whole only when the file
// cannot be read or its format is not recognised; row problems are reported
// in the result.
func Ingest(path string) (validate.Result, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return validate.Result{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return validate.Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	recs, warnings, err := Read(file, f)
	if err != nil {
		return validate.Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	res := validate.Batch(recs)
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// Export writes rows to path in the format its extension names.
func Export(path string, rows []model.Task) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(file, f, rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// records maps the grid's header onto each data row. Blank rows are skipped.
func records(grid [][]string) ([]validate.Record, []model.Warning, error) {
	if len(grid) == 0 {
		return nil, nil, fmt.Errorf("%w: empty table", model.ErrUnsupportedFormat)
	}

	header := make([]string, len(grid[0]))
	var warnings []model.Warning
	hasTask := false
	for i, h := range grid[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		switch {
		case h == model.ColTask:
			hasTask = true
		case h != "" && !model.IsColumn(h):
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnUnknownColumn,
				Field:   h,
				Message: fmt.Sprintf("column %q is not recognised and was ignored", h),
			})
		}
	}
	if !hasTask {
		return nil, warnings, fmt.Errorf("%w: header has no %q column", model.ErrUnsupportedFormat, model.ColTask)
	}

	var out []validate.Record
	for _, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		rec := make(validate.Record)
		for i, v := range cells {
			if i < len(header) && model.IsColumn(header[i]) {
				rec[header[i]] = v
			}
		}
		out = append(out, rec)
	}
	return out, warnings, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cells renders one row in model.Columns order.
func cells(t model.Task) []string {
	return validate.ToRecord(t).Values()
}
