package models

// DataSet is an ordered sequence of rows, typically one input file or one
// array-ID partition of a mixed-array file. Rows need not share columns.
type DataSet []Row

// Clone returns a deep copy of the data set.
func (d DataSet) Clone() DataSet {
	out := make(DataSet, 0, len(d))
	for _, row := range d {
		out = append(out, row.Clone())
	}
	return out
}
