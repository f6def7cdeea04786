// Package datasource loads already-clean price tables for the optimizer.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
)

// Range restricts the rows read from a price file.
type Range struct {
	// Symbol filters on the symbol column. Empty means the file holds a single instrument.
	Symbol string
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
}

// PriceSource loads opening and closing prices of one instrument.
type PriceSource interface {
	// Load reads the price file (parquet or CSV, glob patterns allowed) restricted to the range.
	Load(path string, r Range) (*types.PriceTable, error)
	// Close releases the underlying resources.
	Close() error
}
