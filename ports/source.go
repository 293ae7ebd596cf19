package ports

import (
	"context"

	"dentastat/domain/survey"
)

// RawSource supplies the raw survey table from some backing store (file,
// database, or synthetic generator). Implementations must not retry: a
// failing source is fatal to the run.
type RawSource interface {
	// Load reads the full raw table. A missing or unreadable source returns
	// an error wrapping core.ErrDataUnavailable.
	Load(ctx context.Context) (*survey.RawTable, error)
	// Name identifies the source in logs and dataset metadata.
	Name() string
}
