package ports

import (
	"dentastat/domain/stats"
	"dentastat/domain/survey"
)

// GroupComparer computes comparison statistics between two values of a
// derived categorical field. Implementations are pure: identical inputs
// yield bit-identical results, and nothing is cached between calls.
type GroupComparer interface {
	CompareGroups(ds *survey.Dataset, field survey.Field, groupA, groupB string) stats.ComparisonResult
}
