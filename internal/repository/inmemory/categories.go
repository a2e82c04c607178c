package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"finance-tracker-go/internal/domain/ledger"
)

// CachedCategories serves category reads from a per-owner snapshot of the whole
// category list. Every write through it drops the owner's snapshot and bumps the
// owner's generation; a load that overlapped a write is returned but not cached.
type CachedCategories struct {
	store ledger.CategoryStore
	cache *ristretto.Cache[string, []ledger.Category]
	ttl   time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

func NewCachedCategories(store ledger.CategoryStore, ttl time.Duration) (*CachedCategories, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []ledger.Category]{
		NumCounters: 10000,
		MaxCost:     10000,
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create category cache: %w", err)
	}
	return &CachedCategories{
		store:       store,
		cache:       cache,
		ttl:         ttl,
		generations: make(map[string]uint64),
	}, nil
}

func (c *CachedCategories) Close() {
	c.cache.Close()
}

func (c *CachedCategories) ListByOwner(ctx context.Context, ownerID string) ([]ledger.Category, error) {
	if items, ok := c.cache.Get(ownerID); ok {
		return cloneCategories(items), nil
	}

	generation := c.generation(ownerID)
	items, err := c.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		c.remember(ownerID, generation, items)
	}
	return items, nil
}

func (c *CachedCategories) generation(ownerID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[ownerID]
}

// remember caches items unless a write for the owner happened since generation was read.
func (c *CachedCategories) remember(ownerID string, generation uint64, items []ledger.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[ownerID] != generation {
		return
	}
	c.cache.SetWithTTL(ownerID, cloneCategories(items), 1, c.ttl)
	c.cache.Wait()
}

func (c *CachedCategories) ListByOwnerAndKind(ctx context.Context, ownerID string, kind ledger.Kind) ([]ledger.Category, error) {
	all, err := c.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]ledger.Category, 0, len(all))
	for _, category := range all {
		if category.Kind == kind {
			items = append(items, category)
		}
	}
	return items, nil
}

func (c *CachedCategories) FindByOwnerAndName(ctx context.Context, ownerID, name string) ([]ledger.Category, error) {
	all, err := c.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]ledger.Category, 0, 2)
	for _, category := range all {
		if category.Name == name {
			items = append(items, category)
		}
	}
	return items, nil
}

func (c *CachedCategories) FindByID(ctx context.Context, ownerID, id string) (*ledger.Category, error) {
	all, err := c.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, category := range all {
		if category.ID == id {
			return &category, nil
		}
	}
	return nil, ledger.ErrCategoryNotFound
}

// ExistsByOwnerNameKind guards writes, so it always reads through.
func (c *CachedCategories) ExistsByOwnerNameKind(ctx context.Context, ownerID, name string, kind ledger.Kind, excludeID string) (bool, error) {
	return c.store.ExistsByOwnerNameKind(ctx, ownerID, name, kind, excludeID)
}

func (c *CachedCategories) Create(ctx context.Context, category *ledger.Category) error {
	defer c.invalidate(category.OwnerID)
	return c.store.Create(ctx, category)
}

func (c *CachedCategories) Update(ctx context.Context, category *ledger.Category) error {
	defer c.invalidate(category.OwnerID)
	return c.store.Update(ctx, category)
}

func (c *CachedCategories) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	defer c.invalidate(ownerID)
	return c.store.Delete(ctx, ownerID, id)
}

func (c *CachedCategories) invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[ownerID]++
	c.cache.Del(ownerID)
}

func cloneCategories(categories []ledger.Category) []ledger.Category {
	if categories == nil {
		return nil
	}
	cloned := make([]ledger.Category, len(categories))
	copy(cloned, categories)
	return cloned
}
