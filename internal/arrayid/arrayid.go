// Package arrayid groups mixed-format datalogger output by array ID.
//
// Older CR-type loggers interleave rows from multiple table definitions
// in one file and tag each row with an identifying first column, the
// array ID. Time conversion and export operate per partition, so mixed
// data is split here first.
package arrayid

import "github.com/crtools/crparse/pkg/models"

// Partition splits a mixed data set by each row's first value. Rows with
// no columns are skipped. With one or more ids given, only matching
// partitions are kept; with none, everything is kept, split by ID.
func Partition(data models.DataSet, ids ...string) map[string]models.DataSet {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	partitions := make(map[string]models.DataSet)
	for i := range data {
		values := data[i].Values()
		if len(values) == 0 {
			continue
		}
		id := values[0].Raw()
		if len(ids) > 0 && !wanted[id] {
			continue
		}
		partitions[id] = append(partitions[id], data[i])
	}
	return partitions
}

// Filter keeps only the given ids of an already partitioned data set.
// With no ids, the input is returned unchanged.
func Filter(partitions map[string]models.DataSet, ids ...string) map[string]models.DataSet {
	if len(ids) == 0 {
		return partitions
	}
	filtered := make(map[string]models.DataSet, len(ids))
	for _, id := range ids {
		if part, ok := partitions[id]; ok {
			filtered[id] = part
		}
	}
	return filtered
}

// RenameIDs replaces partition keys using the given ID-to-name table.
// IDs without a translation, or with an empty one, keep their key.
func RenameIDs(partitions map[string]models.DataSet, names map[string]string) map[string]models.DataSet {
	if len(names) == 0 {
		return partitions
	}
	renamed := make(map[string]models.DataSet, len(partitions))
	for id, part := range partitions {
		if name, ok := names[id]; ok && name != "" {
			renamed[name] = part
		} else {
			renamed[id] = part
		}
	}
	return renamed
}
