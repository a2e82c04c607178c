// Package ledgertest provides map-backed ledger stores for tests.
package ledgertest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
)

type Categories struct {
	mu    sync.Mutex
	items map[string]ledger.Category
	seq   int
}

func NewCategories() *Categories {
	return &Categories{items: make(map[string]ledger.Category)}
}

// Add stores a category with a deterministic ID and returns it.
func (c *Categories) Add(ownerID, name string, kind ledger.Kind, color string) ledger.Category {
	category := ledger.Category{OwnerID: ownerID, Name: name, Kind: kind, Color: color}
	if err := c.Create(context.Background(), &category); err != nil {
		panic(err)
	}
	return category
}

func (c *Categories) FindByOwnerAndName(ctx context.Context, ownerID, name string) ([]ledger.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]ledger.Category, 0)
	for _, category := range c.items {
		if category.OwnerID == ownerID && category.Name == name {
			items = append(items, category)
		}
	}
	sortCategories(items)
	return items, nil
}

func (c *Categories) FindByID(ctx context.Context, ownerID, id string) (*ledger.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	category, ok := c.items[id]
	if !ok || category.OwnerID != ownerID {
		return nil, ledger.ErrCategoryNotFound
	}
	return &category, nil
}

func (c *Categories) ListByOwner(ctx context.Context, ownerID string) ([]ledger.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]ledger.Category, 0)
	for _, category := range c.items {
		if category.OwnerID == ownerID {
			items = append(items, category)
		}
	}
	sortCategories(items)
	return items, nil
}

func (c *Categories) ListByOwnerAndKind(ctx context.Context, ownerID string, kind ledger.Kind) ([]ledger.Category, error) {
	all, _ := c.ListByOwner(ctx, ownerID)
	items := make([]ledger.Category, 0, len(all))
	for _, category := range all {
		if category.Kind == kind {
			items = append(items, category)
		}
	}
	return items, nil
}

func (c *Categories) ExistsByOwnerNameKind(ctx context.Context, ownerID, name string, kind ledger.Kind, excludeID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, category := range c.items {
		if category.OwnerID == ownerID && category.Name == name && category.Kind == kind && category.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (c *Categories) Create(ctx context.Context, category *ledger.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	category.ID = fmt.Sprintf("cat-%04d", c.seq)
	category.CreatedAt = time.Now().UTC()
	c.items[category.ID] = *category
	return nil
}

func (c *Categories) Update(ctx context.Context, category *ledger.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items[category.ID]
	if !ok || current.OwnerID != category.OwnerID {
		return ledger.ErrCategoryNotFound
	}
	c.items[category.ID] = *category
	return nil
}

func (c *Categories) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	category, ok := c.items[id]
	if !ok || category.OwnerID != ownerID {
		return false, nil
	}
	delete(c.items, id)
	return true, nil
}

type Transactions struct {
	mu         sync.Mutex
	items      map[string]ledger.Transaction
	categories *Categories
	seq        int

	// SaveErr, when set, is returned by Save for every call.
	SaveErr error
	// Fetches counts store reads.
	Fetches int
}

func NewTransactions(categories *Categories) *Transactions {
	return &Transactions{
		items:      make(map[string]ledger.Transaction),
		categories: categories,
	}
}

// Add stores a transaction for category and returns it. Amount must be a decimal literal.
func (t *Transactions) Add(category ledger.Category, amount string, occurredAt time.Time, note string) ledger.Transaction {
	tx := ledger.Transaction{
		OwnerID:    category.OwnerID,
		CategoryID: category.ID,
		Category:   category,
		Amount:     decimal.RequireFromString(amount),
		Kind:       category.Kind,
		OccurredAt: occurredAt,
		Note:       note,
	}
	if err := t.save(&tx); err != nil {
		panic(err)
	}
	return tx
}

func (t *Transactions) ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]ledger.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Fetches++

	items := make([]ledger.Transaction, 0)
	for _, tx := range t.items {
		if tx.OwnerID != ownerID {
			continue
		}
		if !from.IsZero() && tx.OccurredAt.Before(from) {
			continue
		}
		if tx.OccurredAt.After(to) {
			continue
		}
		items = append(items, t.withCategory(tx))
	}
	ledger.SortChronologically(items)
	return items, nil
}

func (t *Transactions) ListFiltered(ctx context.Context, query ledger.Query) (ledger.Page, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Fetches++

	items := make([]ledger.Transaction, 0)
	for _, tx := range t.items {
		tx = t.withCategory(tx)
		if query.Matches(tx) {
			items = append(items, tx)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return query.Less(items[i], items[j])
	})

	page := ledger.Page{Total: int64(len(items)), Page: query.Page, Size: query.Size}
	if query.Paged() {
		offset := query.Offset()
		if offset >= len(items) {
			items = []ledger.Transaction{}
		} else {
			items = items[offset:]
		}
		if len(items) > query.Size {
			items = items[:query.Size]
		}
	}
	page.Items = items
	return page, nil
}

func (t *Transactions) SumByOwnerKindRange(ctx context.Context, ownerID string, kind ledger.Kind, from, to time.Time) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := decimal.Zero
	for _, tx := range t.items {
		if tx.OwnerID != ownerID || tx.Kind != kind {
			continue
		}
		if tx.OccurredAt.Before(from) || tx.OccurredAt.After(to) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total, nil
}

func (t *Transactions) FindByID(ctx context.Context, ownerID, id string) (*ledger.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, ok := t.items[id]
	if !ok || tx.OwnerID != ownerID {
		return nil, ledger.ErrTransactionNotFound
	}
	tx = t.withCategory(tx)
	return &tx, nil
}

func (t *Transactions) Save(ctx context.Context, tx *ledger.Transaction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.SaveErr != nil {
		return t.SaveErr
	}
	if tx.ID != "" {
		current, ok := t.items[tx.ID]
		if !ok || current.OwnerID != tx.OwnerID {
			return ledger.ErrTransactionNotFound
		}
	}
	return t.saveLocked(tx)
}

func (t *Transactions) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, ok := t.items[id]
	if !ok || tx.OwnerID != ownerID {
		return false, nil
	}
	delete(t.items, id)
	return true, nil
}

func (t *Transactions) CountByCategory(ctx context.Context, ownerID, categoryID string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var count int64
	for _, tx := range t.items {
		if tx.OwnerID == ownerID && tx.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// All returns every stored transaction in chronological order.
func (t *Transactions) All() []ledger.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := make([]ledger.Transaction, 0, len(t.items))
	for _, tx := range t.items {
		items = append(items, t.withCategory(tx))
	}
	ledger.SortChronologically(items)
	return items
}

func (t *Transactions) save(tx *ledger.Transaction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked(tx)
}

func (t *Transactions) saveLocked(tx *ledger.Transaction) error {
	now := time.Now().UTC()
	if tx.ID == "" {
		t.seq++
		tx.ID = fmt.Sprintf("tx-%04d", t.seq)
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	t.items[tx.ID] = *tx
	return nil
}

func (t *Transactions) withCategory(tx ledger.Transaction) ledger.Transaction {
	if t.categories == nil {
		return tx
	}
	t.categories.mu.Lock()
	defer t.categories.mu.Unlock()
	if category, ok := t.categories.items[tx.CategoryID]; ok {
		tx.Category = category
	}
	return tx
}

func sortCategories(items []ledger.Category) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
