package survey

import (
	"sort"
)

// Filter describes the caller-chosen view restriction: gender-set membership
// and an inclusive age range. Filters are explicit parameters threaded into
// each query; there is no ambient filter state.
type Filter struct {
	// Genders is the allowed gender set; empty means all genders.
	Genders []string
	// AgeMin and AgeMax are inclusive bounds. A bound <= 0 is open, since
	// respondent ages are positive.
	AgeMin int
	AgeMax int
}

// Matches reports whether a record passes the filter
func (f Filter) Matches(r Record) bool {
	if len(f.Genders) > 0 {
		found := false
		for _, g := range f.Genders {
			if r.Gender == g {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.AgeMin > 0 && r.Age < f.AgeMin {
		return false
	}
	if f.AgeMax > 0 && r.Age > f.AgeMax {
		return false
	}
	return true
}

// Where produces a new read-only view of the dataset; the base dataset is
// never mutated.
func (d *Dataset) Where(f Filter) *Dataset {
	view := &Dataset{
		ID:            d.ID,
		Source:        d.Source,
		FallbackCount: d.FallbackCount,
		LoadedAt:      d.LoadedAt,
	}
	for _, r := range d.Records {
		if f.Matches(r) {
			view.Records = append(view.Records, r)
		}
	}
	return view
}

// Genders returns the sorted distinct gender values in the dataset
func (d *Dataset) Genders() []string {
	seen := make(map[string]bool)
	for _, r := range d.Records {
		if r.Gender != "" {
			seen[r.Gender] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// AgeBounds returns the minimum and maximum respondent age, or (0, 0) for an
// empty dataset.
func (d *Dataset) AgeBounds() (int, int) {
	if len(d.Records) == 0 {
		return 0, 0
	}
	min, max := d.Records[0].Age, d.Records[0].Age
	for _, r := range d.Records[1:] {
		if r.Age < min {
			min = r.Age
		}
		if r.Age > max {
			max = r.Age
		}
	}
	return min, max
}
