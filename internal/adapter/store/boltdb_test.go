package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"

	"recsys/config"
	"recsys/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var sampleItems = []domain.Item{
	{ID: "10", Name: "Trail Runner", Category: "Shoes", Tags: "red shoes running"},
	{ID: "2", Name: "Loafer", Category: "Shoes", Tags: "brown shoes casual"},
	{ID: "33", Name: "Cap", Category: "Hats", Tags: "red hat"},
}

func TestBoltStore_ReplaceAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceItems(ctx, sampleItems); err != nil {
		t.Fatal(err)
	}

	c, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", c.Len())
	}
	for i, want := range sampleItems {
		if c.Item(i) != want {
			t.Errorf("position %d: expected %+v, got %+v", i, want, c.Item(i))
		}
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}

	if err := s.ReplaceItems(ctx, sampleItems[:1]); err != nil {
		t.Fatal(err)
	}
	items, err := s.Items()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("expected replace to drop old items, got %d", len(items))
	}
}

func TestBoltStore_ReplaceRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceItems(ctx, sampleItems); err != nil {
		t.Fatal(err)
	}

	bad := append([]domain.Item{}, sampleItems...)
	bad = append(bad, sampleItems[0])
	if err := s.ReplaceItems(ctx, bad); !errors.Is(err, domain.ErrDuplicateItem) {
		t.Errorf("expected ErrDuplicateItem, got %v", err)
	}

	n, _ := s.Count()
	if n != 3 {
		t.Errorf("expected previous snapshot to survive, got count %d", n)
	}
}

func TestBoltStore_Clear(t *testing.T) {
	s := newTestStore(t)
	cfg := config.DefaultConfig()

	if err := s.Migrate(cfg); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceItems(context.Background(), sampleItems); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected 0 items after clear, got %d", n)
	}

	info, err := s.GetSchemaInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Version != CurrentSchemaVersion {
		t.Errorf("expected schema version to survive clear, got %d", info.Version)
	}
}

func TestBoltStore_Migration(t *testing.T) {
	s := newTestStore(t)
	cfg := config.DefaultConfig()

	result, err := s.CheckMigration(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsMigration || result.OldVersion != 0 {
		t.Errorf("expected fresh db to need migration, got %+v", result)
	}

	if err := s.Migrate(cfg); err != nil {
		t.Fatal(err)
	}
	result, err = s.CheckMigration(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.NeedsMigration || result.NeedsRebuild {
		t.Errorf("expected no work after migrate, got %+v", result)
	}

	changed := config.DefaultConfig()
	changed.Catalog.Comma = ";"
	rebuild, reason, err := s.NeedsRebuild(changed)
	if err != nil {
		t.Fatal(err)
	}
	if !rebuild || reason == "" {
		t.Errorf("expected rebuild after catalog config change, got %v %q", rebuild, reason)
	}
}

func TestBoltStore_MigrateFromV1(t *testing.T) {
	s := newTestStore(t)
	cfg := config.DefaultConfig()

	if err := s.ReplaceItems(context.Background(), sampleItems); err != nil {
		t.Fatal(err)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Delete(keyCount)
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetSchemaInfo(&SchemaInfo{Version: 1}); err != nil {
		t.Fatal(err)
	}

	if err := s.Migrate(cfg); err != nil {
		t.Fatal(err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected migration to record count 3, got %d", n)
	}
}

func TestComputeConfigHash(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("expected equal configs to hash equally")
	}

	b.Recommend.TopK = 99
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("expected recommend settings not to affect the hash")
	}

	b.Catalog.Includes = []string{"*.tsv"}
	if ComputeConfigHash(a) == ComputeConfigHash(b) {
		t.Error("expected include change to alter the hash")
	}
}
