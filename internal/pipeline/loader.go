// Package pipeline turns dataset identifiers into validated canonical
// dataframes: it resolves a loader, consults the on-disk cache, drives the
// source connector and normalizer on a miss, and validates the result.
package pipeline

import (
	"context"
)

// Loader is one dataset's connector/normalizer pairing. Fetch obtains the
// source-native raw file; Normalize derives the canonical formatted file
// from it. Both are idempotent with respect to on-disk state.
type Loader interface {
	// DatasetID returns the identifier this loader serves, e.g. "ACN_Caltech".
	DatasetID() string
	// Source names the upstream kind, e.g. "acn-api" or "4tu-archive".
	Source() string
	// Fetch obtains or refreshes the raw file. force requests a refresh even
	// when a raw file is already present.
	Fetch(ctx context.Context, force bool) error
	// Normalize produces the canonical formatted file from the raw file.
	Normalize(ctx context.Context) error
}
