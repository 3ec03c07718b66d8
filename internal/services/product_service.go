package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/store"
)

const (
	productListLatency  = 300 * time.Millisecond
	productGetLatency   = 200 * time.Millisecond
	productWriteLatency = 400 * time.Millisecond

	componentReadLatency  = 200 * time.Millisecond
	componentWriteLatency = 300 * time.Millisecond
)

// ProductService owns the products and components collections. Deleting a
// product also deletes its components.
type ProductService struct {
	base
	Store store.Store
	mu    sync.Mutex // guards both collections
}

func NewProductService(st store.Store, p Pacer) *ProductService {
	return &ProductService{base: newBase(p), Store: st}
}

type ProductInput struct {
	Name         string          `json:"name" validate:"required,notblank,max=200"`
	Image        string          `json:"image" validate:"max=500"`
	Description  string          `json:"description" validate:"max=5000"`
	Brand        string          `json:"brand" validate:"max=100"`
	Category     string          `json:"category" validate:"max=100"`
	Price        decimal.Decimal `json:"price" validate:"decimal_gte0"`
	CountInStock int             `json:"countInStock" validate:"gte=0"`
}

// ProductPatch leaves out rating, review count and id; those are not client editable.
type ProductPatch struct {
	Name         *string          `json:"name" validate:"omitnil,notblank,max=200"`
	Image        *string          `json:"image" validate:"omitnil,max=500"`
	Description  *string          `json:"description" validate:"omitnil,max=5000"`
	Brand        *string          `json:"brand" validate:"omitnil,max=100"`
	Category     *string          `json:"category" validate:"omitnil,max=100"`
	Price        *decimal.Decimal `json:"price" validate:"omitnil,decimal_gte0"`
	CountInStock *int             `json:"countInStock" validate:"omitnil,gte=0"`
}

type ComponentInput struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
}

type ComponentPatch struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Quantity    *int    `json:"quantity" validate:"omitnil,gte=1"`
}

func (s *ProductService) newProduct(in ProductInput) domain.Product {
	return domain.Product{
		ID:           s.newID(),
		Name:         in.Name,
		Image:        in.Image,
		Description:  in.Description,
		Brand:        in.Brand,
		Category:     in.Category,
		Price:        in.Price,
		CountInStock: in.CountInStock,
		Rating:       0,
		NumReviews:   0,
	}
}

func (s *ProductService) newComponent(productID string, in ComponentInput) domain.ProductComponent {
	return domain.ProductComponent{
		ID:          s.newID(),
		ProductID:   productID,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
	}
}

func (s *ProductService) List(ctx context.Context) (ps []domain.Product, err error) {
	defer func() { observe("products", "list", err) }()
	ctx, err = s.begin(ctx, productListLatency)
	if err != nil {
		return nil, err
	}
	return store.ReadCollection[domain.Product](ctx, s.Store, domain.ProductsKey)
}

// Get reports ok=false for an unknown id.
func (s *ProductService) Get(ctx context.Context, id string) (p domain.Product, ok bool, err error) {
	defer func() { observe("products", "get", err) }()
	ctx, err = s.begin(ctx, productGetLatency)
	if err != nil {
		return domain.Product{}, false, err
	}
	ps, err := store.ReadCollection[domain.Product](ctx, s.Store, domain.ProductsKey)
	if err != nil {
		return domain.Product{}, false, err
	}
	for _, x := range ps {
		if x.ID == id {
			return x, true, nil
		}
	}
	return domain.Product{}, false, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (p domain.Product, err error) {
	defer func() { observe("products", "create", err) }()
	ctx, err = s.begin(ctx, productWriteLatency)
	if err != nil {
		return domain.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := store.ReadCollection[domain.Product](ctx, s.Store, domain.ProductsKey)
	if err != nil {
		return domain.Product{}, err
	}
	p = s.newProduct(in)
	if err := store.WriteCollection(ctx, s.Store, domain.ProductsKey, append(ps, p)); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (p domain.Product, err error) {
	defer func() { observe("products", "update", err) }()
	ctx, err = s.begin(ctx, productWriteLatency)
	if err != nil {
		return domain.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := store.ReadCollection[domain.Product](ctx, s.Store, domain.ProductsKey)
	if err != nil {
		return domain.Product{}, err
	}
	idx := -1
	for i := range ps {
		if ps[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	p = ps[idx]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CountInStock != nil {
		p.CountInStock = *patch.CountInStock
	}
	ps[idx] = p

	if err := store.WriteCollection(ctx, s.Store, domain.ProductsKey, ps); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Delete removes the product and all of its components in one store write.
// An unknown id still clears any components pointing at it.
func (s *ProductService) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("products", "delete", err) }()
	ctx, err = s.begin(ctx, productWriteLatency)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := store.ReadCollection[domain.Product](ctx, s.Store, domain.ProductsKey)
	if err != nil {
		return err
	}
	cs, err := store.ReadCollection[domain.ProductComponent](ctx, s.Store, domain.ComponentsKey)
	if err != nil {
		return err
	}

	keptP := make([]domain.Product, 0, len(ps))
	for _, x := range ps {
		if x.ID != id {
			keptP = append(keptP, x)
		}
	}
	keptC := make([]domain.ProductComponent, 0, len(cs))
	for _, c := range cs {
		if c.ProductID != id {
			keptC = append(keptC, c)
		}
	}
	if len(keptP) == len(ps) && len(keptC) == len(cs) {
		return nil
	}

	pv, err := store.Encode(keptP)
	if err != nil {
		return err
	}
	cv, err := store.Encode(keptC)
	if err != nil {
		return err
	}
	if err := s.Store.SetMany(ctx, map[string]string{
		domain.ProductsKey:   pv,
		domain.ComponentsKey: cv,
	}); err != nil {
		return fmt.Errorf("store: delete product %s: %w", id, err)
	}
	return nil
}

// ListComponents returns the components of one product in storage order.
func (s *ProductService) ListComponents(ctx context.Context, productID string) (out []domain.ProductComponent, err error) {
	defer func() { observe("components", "list", err) }()
	ctx, err = s.begin(ctx, componentReadLatency)
	if err != nil {
		return nil, err
	}
	cs, err := store.ReadCollection[domain.ProductComponent](ctx, s.Store, domain.ComponentsKey)
	if err != nil {
		return nil, err
	}
	out = []domain.ProductComponent{}
	for _, c := range cs {
		if c.ProductID == productID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ProductService) GetComponent(ctx context.Context, id string) (c domain.ProductComponent, ok bool, err error) {
	defer func() { observe("components", "get", err) }()
	ctx, err = s.begin(ctx, componentReadLatency)
	if err != nil {
		return domain.ProductComponent{}, false, err
	}
	cs, err := store.ReadCollection[domain.ProductComponent](ctx, s.Store, domain.ComponentsKey)
	if err != nil {
		return domain.ProductComponent{}, false, err
	}
	for _, x := range cs {
		if x.ID == id {
			return x, true, nil
		}
	}
	return domain.ProductComponent{}, false, nil
}

// CreateComponent attaches a new component to productID. The owner is not
// checked; callers look the product up first when that matters.
func (s *ProductService) CreateComponent(ctx context.Context, productID string, in ComponentInput) (c domain.ProductComponent, err error) {
	defer func() { observe("components", "create", err) }()
	ctx, err = s.begin(ctx, componentWriteLatency)
	if err != nil {
		return domain.ProductComponent{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := store.ReadCollection[domain.ProductComponent](ctx, s.Store, domain.ComponentsKey)
	if err != nil {
		return domain.ProductComponent{}, err
	}
	c = s.newComponent(productID, in)
	if err := store.WriteCollection(ctx, s.Store, domain.ComponentsKey, append(cs, c)); err != nil {
		return domain.ProductComponent{}, err
	}
	return c, nil
}

func (s *ProductService) UpdateComponent(ctx context.Context, id string, patch ComponentPatch) (c domain.ProductComponent, err error) {
	defer func() { observe("components", "update", err) }()
	ctx, err = s.begin(ctx, componentWriteLatency)
	if err != nil {
		return domain.ProductComponent{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := store.ReadCollection[domain.ProductComponent](ctx, s.Store, domain.ComponentsKey)
	if err != nil {
		return domain.ProductComponent{}, err
	}
	idx := -1
	for i := range cs {
		if cs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ProductComponent{}, fmt.Errorf("component %s: %w", id, ErrNotFound)
	}

	c = cs[idx]
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Quantity != nil {
		c.Quantity = *patch.Quantity
	}
	cs[idx] = c

	if err := store.WriteCollection(ctx, s.Store, domain.ComponentsKey, cs); err != nil {
		return domain.ProductComponent{}, err
	}
	return c, nil
}

func (s *ProductService) DeleteComponent(ctx context.Context, id string) (err error) {
	defer func() { observe("components", "delete", err) }()
	ctx, err = s.begin(ctx, componentWriteLatency)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := store.ReadCollection[domain.ProductComponent](ctx, s.Store, domain.ComponentsKey)
	if err != nil {
		return err
	}
	kept := cs[:0]
	for _, c := range cs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cs) {
		return nil
	}
	return store.WriteCollection(ctx, s.Store, domain.ComponentsKey, kept)
}
