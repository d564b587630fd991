package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/seed"
	"github.com/harrisonrobin/taskplan/pkg/store"
	"github.com/harrisonrobin/taskplan/pkg/validate"
)

func roundTrip(t *testing.T, f Format, rows []model.Task) []model.Task {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, rows))

	recs, warnings, err := Read(&buf, f)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	res := validate.Batch(recs)
	require.NoError(t, res.Err())
	assert.Empty(t, res.Warnings)
	return res.Tasks
}

func TestCSVRoundTrip(t *testing.T) {
	rows := store.New(seed.Project()...).Snapshot()
	assert.Equal(t, rows, roundTrip(t, CSV, rows))
}

func TestXLSXRoundTrip(t *testing.T) {
	rows := seed.Project()
	rows[0].TimeSpent = 16.5
	assert.Equal(t, rows, roundTrip(t, XLSX, rows))
}

func TestXLSXKeepsFullPrecision(t *testing.T) {
	rows := seed.Project()[:2]
	rows[0].Budget = 1234.5678901234567
	rows[0].Cost = 0.1 + 0.2
	rows[1].TimeSpent = 12.345678901234567
	assert.Equal(t, rows, roundTrip(t, XLSX, rows))
}

func TestCSVEmptyStoreRoundTrip(t *testing.T) {
	assert.Empty(t, roundTrip(t, CSV, nil))
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("plan.CSV")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	f, err = FormatFromPath("/tmp/plan.xlsx")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	_, err = FormatFromPath("plan.json")
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestReadCSVFlexibleHeader(t *testing.T) {
	in := "\ufeffAssignee,Task,Owner Notes,Progress\n" +
		"Alice,Design,ignored,40\n" +
		",,,\n" +
		"Bob,Build\n"
	recs, warnings, err := Read(strings.NewReader(in), CSV)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Design", recs[0][model.ColTask])
	assert.Equal(t, "40", recs[0][model.ColProgress])
	_, hasProgress := recs[1][model.ColProgress]
	assert.False(t, hasProgress)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnUnknownColumn, warnings[0].Kind)
}

func TestReadRejectsTableWithoutTaskColumn(t *testing.T) {
	_, _, err := Read(strings.NewReader("Name,Owner\nx,y\n"), CSV)
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)

	_, _, err = Read(strings.NewReader(""), CSV)
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	_, _, err := Read(strings.NewReader("not a zip"), XLSX)
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestIngestPartialSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	content := strings.Join([]string{
		"Task,Subtask,Start Date,End Date,Progress",
		"Design,Brief,08/01/2024,08/02/2024,100",
		"Design,Review,08/03/2024,08/04/2024,-10",
		"Build,,someday,08/20/2024,0",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	res, err := Ingest(path)
	require.NoError(t, err)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, []int{1, 3}, res.Rows)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].Row)
	assert.Equal(t, model.ColProgress, res.Rejected[0].Field)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, model.WarnUnparsedDate, res.Warnings[0].Kind)
}

func TestIngestUnsupportedExtensionLeavesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte("Task\nA\n"), 0600))
	_, err := Ingest(path)
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestExportThenIngest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.xlsx"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Export(path, seed.Project()))
		res, err := Ingest(path)
		require.NoError(t, err, name)
		assert.Equal(t, seed.Project(), res.Tasks, name)
	}
	assert.ErrorIs(t, Export(filepath.Join(dir, "out.pdf"), nil), model.ErrUnsupportedFormat)
}
