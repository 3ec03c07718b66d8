package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/store"
)

const itemLatency = 300 * time.Millisecond

type ItemService struct {
	base
	Store store.Store
	mu    sync.Mutex // serializes read-modify-write on the items key
}

func NewItemService(st store.Store, p Pacer) *ItemService {
	return &ItemService{base: newBase(p), Store: st}
}

type ItemInput struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// ItemPatch holds the fields an update may change; nil means unchanged.
type ItemPatch struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	IsCompleted *bool   `json:"isCompleted"`
}

func (s *ItemService) newItem(in ItemInput) domain.Item {
	now := s.now()
	return domain.Item{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *ItemService) List(ctx context.Context) (items []domain.Item, err error) {
	defer func() { observe("items", "list", err) }()
	ctx, err = s.begin(ctx, itemLatency)
	if err != nil {
		return nil, err
	}
	return store.ReadCollection[domain.Item](ctx, s.Store, domain.ItemsKey)
}

func (s *ItemService) Get(ctx context.Context, id string) (it domain.Item, err error) {
	defer func() { observe("items", "get", err) }()
	ctx, err = s.begin(ctx, itemLatency)
	if err != nil {
		return domain.Item{}, err
	}
	items, err := store.ReadCollection[domain.Item](ctx, s.Store, domain.ItemsKey)
	if err != nil {
		return domain.Item{}, err
	}
	for _, x := range items {
		if x.ID == id {
			return x, nil
		}
	}
	return domain.Item{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
}

func (s *ItemService) Create(ctx context.Context, in ItemInput) (it domain.Item, err error) {
	defer func() { observe("items", "create", err) }()
	ctx, err = s.begin(ctx, itemLatency)
	if err != nil {
		return domain.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := store.ReadCollection[domain.Item](ctx, s.Store, domain.ItemsKey)
	if err != nil {
		return domain.Item{}, err
	}
	it = s.newItem(in)
	items = append(items, it)
	if err := store.WriteCollection(ctx, s.Store, domain.ItemsKey, items); err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

func (s *ItemService) Update(ctx context.Context, id string, p ItemPatch) (it domain.Item, err error) {
	defer func() { observe("items", "update", err) }()
	ctx, err = s.begin(ctx, itemLatency)
	if err != nil {
		return domain.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := store.ReadCollection[domain.Item](ctx, s.Store, domain.ItemsKey)
	if err != nil {
		return domain.Item{}, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Item{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}

	it = items[idx]
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.IsCompleted != nil {
		it.IsCompleted = *p.IsCompleted
	}
	it.UpdatedAt = s.touch(it.UpdatedAt)
	items[idx] = it

	if err := store.WriteCollection(ctx, s.Store, domain.ItemsKey, items); err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

// Delete removes the item; an unknown id is not an error.
func (s *ItemService) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("items", "delete", err) }()
	ctx, err = s.begin(ctx, itemLatency)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := store.ReadCollection[domain.Item](ctx, s.Store, domain.ItemsKey)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, x := range items {
		if x.ID != id {
			kept = append(kept, x)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return store.WriteCollection(ctx, s.Store, domain.ItemsKey, kept)
}
