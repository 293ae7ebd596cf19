package survey

// RawRow represents one raw survey row as string key-value pairs
type RawRow map[string]string

// RawTable is the untyped tabular input to the normalizer, as produced by the
// file reader or the database source.
type RawTable struct {
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"rows"`
}

// HasColumn reports whether the table carries the given header
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns the table does not carry
func (t *RawTable) MissingColumns() []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
