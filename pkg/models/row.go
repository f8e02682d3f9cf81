// Package models defines the row/column data structures shared by the
// crparse ingestion, time-conversion and export stages.
//
// A Row is an ordered mapping from column key to column value. Keys are
// either header names or zero-based positional indices (mixed-array files
// carry no header); values are either the raw string read from the file or
// an already parsed timestamp. Column order is significant: it determines
// the column order on CSV export and must survive every transformation.
package models

import "time"

// ColumnKey identifies a column within a row, either by header name or by
// zero-based position. The zero value is not a valid key.
type ColumnKey struct {
	name  string
	index int
	named bool
	valid bool
}

// Name returns a ColumnKey for a header name.
func Name(name string) ColumnKey {
	return ColumnKey{name: name, named: true, valid: true}
}

// Index returns a ColumnKey for a zero-based column position.
func Index(i int) ColumnKey {
	return ColumnKey{index: i, valid: true}
}

// IsName reports whether the key is a header name.
func (k ColumnKey) IsName() bool { return k.named }

// IsZero reports whether the key is the invalid zero value.
func (k ColumnKey) IsZero() bool { return !k.valid }

// Name returns the header name for a named key, "" otherwise.
func (k ColumnKey) Name() string {
	if k.named {
		return k.name
	}
	return ""
}

// Index returns the position for an indexed key, -1 otherwise.
func (k ColumnKey) Index() int {
	if k.named || !k.valid {
		return -1
	}
	return k.index
}

// String renders the key the way it appears in an exported header line.
func (k ColumnKey) String() string {
	if k.named {
		return k.name
	}
	if !k.valid {
		return ""
	}
	return itoa(k.index)
}

// itoa avoids strconv for the small non-negative indices column keys use.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// ColumnValue is either a raw string read from the input file or a parsed,
// timezone-aware timestamp produced by time conversion.
type ColumnValue struct {
	raw    string
	ts     time.Time
	isTime bool
}

// Raw returns a ColumnValue holding an unparsed string.
func Raw(s string) ColumnValue {
	return ColumnValue{raw: s}
}

// Timestamp returns a ColumnValue holding a parsed timestamp.
func Timestamp(t time.Time) ColumnValue {
	return ColumnValue{ts: t, isTime: true}
}

// IsTimestamp reports whether the value is a parsed timestamp.
func (v ColumnValue) IsTimestamp() bool { return v.isTime }

// Raw returns the raw string, or "" for timestamp values.
func (v ColumnValue) Raw() string {
	if v.isTime {
		return ""
	}
	return v.raw
}

// Time returns the parsed timestamp, or the zero time for raw values.
func (v ColumnValue) Time() time.Time {
	if !v.isTime {
		return time.Time{}
	}
	return v.ts
}

// Pair is one column of a row: a key and its value.
type Pair struct {
	Key   ColumnKey
	Value ColumnValue
}

// Row is an ordered collection of columns. Keys are unique within a row.
type Row struct {
	keys []ColumnKey
	vals map[ColumnKey]ColumnValue
}

// NewRow builds a row from ordered pairs. A repeated key overwrites the
// earlier value but keeps the earlier position.
func NewRow(pairs ...Pair) Row {
	r := Row{vals: make(map[ColumnKey]ColumnValue, len(pairs))}
	for _, p := range pairs {
		r.Set(p.Key, p.Value)
	}
	return r
}

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.keys) }

// Has reports whether the row contains the key.
func (r *Row) Has(key ColumnKey) bool {
	_, ok := r.vals[key]
	return ok
}

// Get returns the value stored under key.
func (r *Row) Get(key ColumnKey) (ColumnValue, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Set stores value under key. An existing key keeps its position; a new
// key is appended at the end of the row.
func (r *Row) Set(key ColumnKey, value ColumnValue) {
	if r.vals == nil {
		r.vals = make(map[ColumnKey]ColumnValue)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = value
}

// Rename replaces oldKey with newKey in place, keeping the column's
// position and value. If newKey already exists elsewhere in the row, that
// other column is dropped: the renamed column wins. Renaming a missing key
// is a no-op returning false.
func (r *Row) Rename(oldKey, newKey ColumnKey) bool {
	v, ok := r.vals[oldKey]
	if !ok {
		return false
	}
	if oldKey == newKey {
		return true
	}
	if _, clash := r.vals[newKey]; clash {
		r.removeKey(newKey)
	}
	for i, k := range r.keys {
		if k == oldKey {
			r.keys[i] = newKey
			break
		}
	}
	delete(r.vals, oldKey)
	r.vals[newKey] = v
	return true
}

// Remove deletes the column under key, reporting whether it was present.
func (r *Row) Remove(key ColumnKey) bool {
	if _, ok := r.vals[key]; !ok {
		return false
	}
	r.removeKey(key)
	return true
}

func (r *Row) removeKey(key ColumnKey) {
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	delete(r.vals, key)
}

// Keys returns the row's keys in column order.
func (r *Row) Keys() []ColumnKey {
	keys := make([]ColumnKey, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Values returns the row's values in column order.
func (r *Row) Values() []ColumnValue {
	vals := make([]ColumnValue, 0, len(r.keys))
	for _, k := range r.keys {
		vals = append(vals, r.vals[k])
	}
	return vals
}

// Pairs returns the row's columns in order.
func (r *Row) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.keys))
	for _, k := range r.keys {
		pairs = append(pairs, Pair{Key: k, Value: r.vals[k]})
	}
	return pairs
}

// Clone returns an independent copy of the row.
func (r *Row) Clone() Row {
	out := Row{
		keys: make([]ColumnKey, len(r.keys)),
		vals: make(map[ColumnKey]ColumnValue, len(r.keys)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.vals {
		out.vals[k] = v
	}
	return out
}
