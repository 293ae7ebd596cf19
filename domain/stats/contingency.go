package stats

import (
	"sort"
)

// ContingencyTable is a cross-tabulation of counts over a categorical group
// label and a raw integer outcome code. Only observed categories appear, so
// marginal totals are positive by construction.
type ContingencyTable struct {
	counts map[string]map[int]int
	total  int
}

// NewContingencyTable creates an empty table
func NewContingencyTable() *ContingencyTable {
	return &ContingencyTable{counts: make(map[string]map[int]int)}
}

// Add records one observation
func (t *ContingencyTable) Add(group string, outcome int) {
	row, ok := t.counts[group]
	if !ok {
		row = make(map[int]int)
		t.counts[group] = row
	}
	row[outcome]++
	t.total++
}

// Total returns the number of observations
func (t *ContingencyTable) Total() int {
	return t.total
}

// Rows returns the number of distinct group values observed
func (t *ContingencyTable) Rows() int {
	return len(t.counts)
}

// Cols returns the number of distinct outcome codes observed
func (t *ContingencyTable) Cols() int {
	return len(t.outcomeKeys())
}

// Degenerate reports whether the table is unsuitable for a chi-square test:
// fewer than two groups or fewer than two outcome categories present.
func (t *ContingencyTable) Degenerate() bool {
	return t.Rows() < 2 || t.Cols() < 2 || t.total == 0
}

// Counts returns the dense count matrix with rows and columns in sorted key
// order, for deterministic downstream computation.
func (t *ContingencyTable) Counts() [][]int {
	groups := t.groupKeys()
	outcomes := t.outcomeKeys()

	matrix := make([][]int, len(groups))
	for i, g := range groups {
		matrix[i] = make([]int, len(outcomes))
		for j, o := range outcomes {
			matrix[i][j] = t.counts[g][o]
		}
	}
	return matrix
}

func (t *ContingencyTable) groupKeys() []string {
	keys := make([]string, 0, len(t.counts))
	for g := range t.counts {
		keys = append(keys, g)
	}
	sort.Strings(keys)
	return keys
}

func (t *ContingencyTable) outcomeKeys() []int {
	seen := make(map[int]bool)
	for _, row := range t.counts {
		for o := range row {
			seen[o] = true
		}
	}
	keys := make([]int, 0, len(seen))
	for o := range seen {
		keys = append(keys, o)
	}
	sort.Ints(keys)
	return keys
}
