package arrayid

import (
	"testing"

	"github.com/crtools/crparse/pkg/models"
)

func mixedData() models.DataSet {
	return models.DataSet{
		models.NewRow(
			models.Pair{Key: models.Index(0), Value: models.Raw("100")},
			models.Pair{Key: models.Index(1), Value: models.Raw("2016")},
			models.Pair{Key: models.Index(2), Value: models.Raw("123")},
			models.Pair{Key: models.Index(3), Value: models.Raw("54.2")},
		),
		models.NewRow(
			models.Pair{Key: models.Index(0), Value: models.Raw("101")},
			models.Pair{Key: models.Index(1), Value: models.Raw("2016")},
			models.Pair{Key: models.Index(2), Value: models.Raw("123")},
			models.Pair{Key: models.Index(3), Value: models.Raw("1245")},
			models.Pair{Key: models.Index(4), Value: models.Raw("44.2")},
		),
		models.NewRow(
			models.Pair{Key: models.Index(0), Value: models.Raw("100")},
			models.Pair{Key: models.Index(1), Value: models.Raw("2016")},
			models.Pair{Key: models.Index(2), Value: models.Raw("124")},
			models.Pair{Key: models.Index(3), Value: models.Raw("52.1")},
		),
	}
}

func TestPartition_SplitsByFirstValue(t *testing.T) {
	partitions := Partition(mixedData())

	if len(partitions) != 2 {
		t.Fatalf("got %d partitions, want 2", len(partitions))
	}
	if len(partitions["100"]) != 2 {
		t.Errorf("partition 100 has %d rows, want 2", len(partitions["100"]))
	}
	if len(partitions["101"]) != 1 {
		t.Errorf("partition 101 has %d rows, want 1", len(partitions["101"]))
	}
}

func TestPartition_FilterByID(t *testing.T) {
	partitions := Partition(mixedData(), "101")

	if len(partitions) != 1 {
		t.Fatalf("got %d partitions, want 1", len(partitions))
	}
	rows, ok := partitions["101"]
	if !ok || len(rows) != 1 {
		t.Fatalf("partition 101 missing or wrong size: %v", partitions)
	}
	if rows[0].Len() != 5 {
		t.Errorf("row has %d columns, want 5", rows[0].Len())
	}
}

func TestPartition_SkipsEmptyRows(t *testing.T) {
	data := models.DataSet{models.NewRow()}
	partitions := Partition(data)
	if len(partitions) != 0 {
		t.Errorf("got %d partitions from empty rows, want 0", len(partitions))
	}
}

func TestFilter(t *testing.T) {
	partitions := Partition(mixedData())

	filtered := Filter(partitions, "100")
	if len(filtered) != 1 || len(filtered["100"]) != 2 {
		t.Errorf("unexpected filter result: %v", filtered)
	}

	// No ids means no filtering.
	if got := Filter(partitions); len(got) != 2 {
		t.Errorf("Filter with no ids dropped partitions: %v", got)
	}
}

func TestRenameIDs(t *testing.T) {
	partitions := Partition(mixedData())

	renamed := RenameIDs(partitions, map[string]string{"100": "Daily"})
	if _, ok := renamed["Daily"]; !ok {
		t.Error("renamed partition Daily missing")
	}
	if _, ok := renamed["100"]; ok {
		t.Error("old key 100 still present")
	}
	if _, ok := renamed["101"]; !ok {
		t.Error("untranslated key 101 missing")
	}
}
