// Package catalog maps an audio library on disk to simulation item identifiers.
package catalog

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
)

// Library scans a directory tree for audio files and labels them from their tags.
// Files are numbered 1..n in lexical path order.
type Library struct {
	logger     *slog.Logger
	bus        ports.EventBus
	extensions map[string]struct{}
}

// NewLibrary creates a catalog recognizing the given extensions (case-insensitive).
// An empty list selects domain.DefaultExtensions. bus may be nil.
func NewLibrary(logger *slog.Logger, bus ports.EventBus, extensions []string) *Library {
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Library{
		logger:     logger,
		bus:        bus,
		extensions: exts,
	}
}

// Scan implements ports.Catalog.
func (l *Library) Scan(ctx context.Context, root string) ([]domain.CatalogEntry, error) {
	files, err := l.collect(ctx, root)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrScanCancelled
		}
		return nil, domain.NewServiceError("Catalog", "Scan", "failed to walk "+root, err)
	}
	if len(files) == 0 {
		return nil, domain.ErrLibraryEmpty
	}
	slices.Sort(files)

	entries := make([]domain.CatalogEntry, len(files))
	for i, path := range files {
		entries[i] = l.describe(path)
		entries[i].ID = domain.ItemID(i + 1)
	}

	l.logger.Info("library scanned",
		slog.String("root", root),
		slog.Int("items", len(entries)))
	if l.bus != nil {
		l.bus.Publish(domain.NewScanCompletedEvent(root, entries))
	}
	return entries, nil
}

func (l *Library) collect(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := l.extensions[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// describe reads tags from path. Unreadable or untagged files keep their file name as title.
func (l *Library) describe(path string) domain.CatalogEntry {
	entry := domain.CatalogEntry{
		FilePath: path,
		Title:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		l.logger.Warn("cannot open audio file", slog.String("path", path), slog.Any("error", err))
		return entry
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			l.logger.Debug("cannot read tags", slog.String("path", path), slog.Any("error", err))
		}
		return entry
	}
	if title := strings.TrimSpace(meta.Title()); title != "" {
		entry.Title = title
	}
	entry.Artist = strings.TrimSpace(meta.Artist())
	entry.Album = strings.TrimSpace(meta.Album())
	return entry
}

// IDs returns the identifiers of entries in order.
func IDs(entries []domain.CatalogEntry) []domain.ItemID {
	ids := make([]domain.ItemID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

var _ ports.Catalog = (*Library)(nil)
