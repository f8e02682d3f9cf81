package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crtools/crparse/internal/ingest"
	"github.com/crtools/crparse/pkg/models"
)

func TestToCSV_RoundTrip(t *testing.T) {
	// Exporting and re-ingesting a data set without time columns
	// reproduces the original string values exactly, regardless of
	// name vs index keying.
	path := filepath.Join(t.TempDir(), "out.dat")

	data := models.DataSet{
		models.NewRow(
			models.Pair{Key: models.Name("Label_1"), Value: models.Raw("some_value")},
			models.Pair{Key: models.Name("Label_2"), Value: models.Raw("54.2")},
		),
		models.NewRow(
			models.Pair{Key: models.Index(0), Value: models.Raw("another_value")},
			models.Pair{Key: models.Index(1), Value: models.Raw("44.2")},
		),
	}

	require.NoError(t, ToCSV(data, path, Options{}))

	back, err := ingest.ReadTableFile(path, ingest.DefaultTableOptions())
	require.NoError(t, err)
	require.Len(t, back, 2)

	for i := range data {
		wantValues := data[i].Values()
		gotValues := back[i].Values()
		require.Len(t, gotValues, len(wantValues))
		for j := range wantValues {
			assert.Equal(t, wantValues[j].Raw(), gotValues[j].Raw())
		}
	}
}

func TestToCSV_TimestampFormatting(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2016, time.May, 2, 12, 34, 15, 0, time.UTC)
	data := models.DataSet{
		models.NewRow(
			models.Pair{Key: models.Name("Label_1"), Value: models.Raw("some_value")},
			models.Pair{Key: models.Name("Label_2"), Value: models.Timestamp(ts)},
		),
	}

	plain := filepath.Join(dir, "plain.dat")
	require.NoError(t, ToCSV(data, plain, Options{}))
	content, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "some_value,2016-05-02 12:34:15\n", string(content))

	zoned := filepath.Join(dir, "zoned.dat")
	require.NoError(t, ToCSV(data, zoned, Options{IncludeTimeZone: true}))
	content, err = os.ReadFile(zoned)
	require.NoError(t, err)
	assert.Equal(t, "some_value,2016-05-02 12:34:15+0000\n", string(content))
}

func TestToCSV_HeaderIdempotentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")
	data := models.DataSet{
		models.NewRow(
			models.Pair{Key: models.Name("Label_1"), Value: models.Raw("a")},
			models.Pair{Key: models.Name("Label_2"), Value: models.Raw("b")},
		),
	}

	require.NoError(t, ToCSV(data, path, Options{Header: true}))
	require.NoError(t, ToCSV(data, path, Options{Header: true}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Label_1,Label_2", lines[0])
	assert.Equal(t, "a,b", lines[1])
	assert.Equal(t, "a,b", lines[2])
}

func TestToCSV_Truncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")
	data := models.DataSet{
		models.NewRow(models.Pair{Key: models.Index(0), Value: models.Raw("x")}),
	}

	require.NoError(t, ToCSV(data, path, Options{}))
	require.NoError(t, ToCSV(data, path, Options{Truncate: true}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(content))
}

func TestToCSV_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.dat")
	data := models.DataSet{
		models.NewRow(models.Pair{Key: models.Index(0), Value: models.Raw("x")}),
	}
	require.NoError(t, ToCSV(data, path, Options{}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestArrayIDsToCSV(t *testing.T) {
	dir := t.TempDir()
	partitions := map[string]models.DataSet{
		"100": {models.NewRow(models.Pair{Key: models.Index(0), Value: models.Raw("100")})},
		"101": {models.NewRow(models.Pair{Key: models.Index(0), Value: models.Raw("101")})},
	}

	info := map[string]ArrayInfo{
		"100": {Path: filepath.Join(dir, "100.dat")},
		"101": {Path: filepath.Join(dir, "101.dat")},
	}
	require.NoError(t, ArrayIDsToCSV(partitions, info, Options{}))

	for id, target := range info {
		content, err := os.ReadFile(target.Path)
		require.NoError(t, err)
		assert.Equal(t, id+"\n", string(content))
	}
}

func TestArrayIDsToCSV_Errors(t *testing.T) {
	partitions := map[string]models.DataSet{"100": {}}

	err := ArrayIDsToCSV(partitions, nil, Options{})
	assert.ErrorIs(t, err, ErrNoArrayInfo)

	err = ArrayIDsToCSV(partitions, map[string]ArrayInfo{"999": {Path: "x"}}, Options{})
	assert.Error(t, err)

	err = ArrayIDsToCSV(partitions, map[string]ArrayInfo{"100": {}}, Options{})
	assert.Error(t, err)
}
