package ports

import (
	"context"

	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

// Catalog maps the files of an audio library to item identifiers.
//
// Thread-safety: implementations must be safe to call from multiple goroutines.
type Catalog interface {
	// Scan walks root recursively and returns one entry per supported audio file.
	// Identifiers are assigned 1..n in a deterministic order so that repeated scans
	// of an unchanged library yield the same mapping.
	//
	// Returns domain.ErrLibraryEmpty if no supported file is found and
	// domain.ErrScanCancelled if ctx is done before the walk finishes.
	Scan(ctx context.Context, root string) ([]domain.CatalogEntry, error)
}
