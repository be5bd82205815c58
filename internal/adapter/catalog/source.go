package catalog

import (
	"context"
	"fmt"
	"os"

	"recsys/internal/adapter/fs"
	"recsys/internal/domain"
	"recsys/internal/logging"
)

// FileSource loads a catalog from every CSV file the walker finds under Root,
// concatenated in path order.
type FileSource struct {
	Root   string
	Walker *fs.Walker
	Comma  rune
}

// NewFileSource creates a file-backed catalog source.
func NewFileSource(root string, walker *fs.Walker, comma rune) *FileSource {
	return &FileSource{Root: root, Walker: walker, Comma: comma}
}

// Files lists the catalog files that Load would read.
func (s *FileSource) Files() ([]fs.FileInfo, error) {
	return s.Walker.Walk(s.Root)
}

// LoadItems reads raw items from every catalog file, calling progress after each file.
func (s *FileSource) LoadItems(ctx context.Context, progress func(done, total int, path string)) ([]domain.Item, error) {
	files, err := s.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.Root, err)
	}

	var items []domain.Item
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileItems, err := decodeFile(f.Path, s.Comma)
		if err != nil {
			return nil, err
		}
		items = append(items, fileItems...)

		logging.Ctx(ctx).Debug().Str("file", f.Path).Int("items", len(fileItems)).Msg("catalog file read")
		if progress != nil {
			progress(i+1, len(files), f.Path)
		}
	}

	return items, nil
}

// Load implements port.CatalogSource.
func (s *FileSource) Load(ctx context.Context) (*domain.Catalog, error) {
	items, err := s.LoadItems(ctx, nil)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(items)
}

func decodeFile(path string, comma rune) ([]domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := DecodeCSV(f, comma)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
