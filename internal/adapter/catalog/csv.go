// Package catalog loads item catalogs from CSV files.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"recsys/internal/domain"
)

// Accepted header names per field, matched case-insensitively.
var columnAliases = map[string][]string{
	"id":       {"product_id", "id", "item_id"},
	"name":     {"name", "title"},
	"category": {"category"},
	"tags":     {"tags", "description"},
}

// DecodeCSV reads items from r. The first row is a header; an id column and a
// tags column are required, name and category are optional. Empty tags are valid.
func DecodeCSV(r io.Reader, comma rune) ([]domain.Item, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var items []domain.Item
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		items = append(items, domain.Item{
			ID:       field(record, cols["id"]),
			Name:     field(record, cols["name"]),
			Category: field(record, cols["category"]),
			Tags:     field(record, cols["tags"]),
		})
	}

	return items, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := map[string]int{"id": -1, "name": -1, "category": -1, "tags": -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		for key, aliases := range columnAliases {
			if cols[key] != -1 {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					cols[key] = i
				}
			}
		}
	}

	if cols["id"] == -1 {
		return nil, fmt.Errorf("missing id column in header %v", header)
	}
	if cols["tags"] == -1 {
		return nil, fmt.Errorf("missing tags column in header %v", header)
	}
	return cols, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
