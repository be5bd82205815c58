package store

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"

	"recsys/internal/domain"
	"recsys/internal/port"
)

var _ port.CatalogStore = (*BoltStore)(nil)

var (
	bucketItems = []byte("items")
	bucketMeta  = []byte("meta")
	keyCount    = []byte("item_count")
)

// BoltStore keeps a catalog snapshot in a bbolt file. Items are keyed by their
// catalog position so that Load returns them in import order.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketItems, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func positionKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}

// ReplaceItems drops the stored snapshot and writes items in one transaction.
// Items are validated as a catalog first, so a bad import leaves the old
// snapshot untouched.
func (s *BoltStore) ReplaceItems(ctx context.Context, items []domain.Item) error {
	if _, err := domain.NewCatalog(items); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketItems); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketItems)
		if err != nil {
			return err
		}

		for i, item := range items {
			if i%256 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			data, err := json.Marshal(item)
			if err != nil {
				return err
			}
			if err := b.Put(positionKey(i), data); err != nil {
				return err
			}
		}

		countData, err := json.Marshal(len(items))
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyCount, countData)
	})
}

// Items returns the stored items in catalog order.
func (s *BoltStore) Items() ([]domain.Item, error) {
	var items []domain.Item
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketItems).ForEach(func(k, v []byte) error {
			var item domain.Item
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("corrupt item at %x: %w", k, err)
			}
			items = append(items, item)
			return nil
		})
	})
	return items, err
}

// Load implements port.CatalogSource.
func (s *BoltStore) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := s.Items()
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(items)
}

func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyCount)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &n)
	})
	return n, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
