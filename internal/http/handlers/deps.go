package handlers

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/services"
	"storefront/internal/store"
)

type Deps struct {
	Auth *services.AuthService
	Cart *services.CartService

	ItemHandler    *ItemHandler
	PostHandler    *PostHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	AuthHandler    *AuthHandler
	AdminHandler   *AdminHandler
	ExportHandler  *ExportHandler
}

// NewDeps builds every service over st and the handlers that use them. The
// cart is loaded from the store here.
func NewDeps(ctx context.Context, st store.Store, cfg config.Config) (*Deps, error) {
	pace := services.PacerFor(cfg.SimulateLatency)

	itemSvc := services.NewItemService(st, pace)
	postSvc := services.NewPostService(st, pace)
	productSvc := services.NewProductService(st, pace)
	authSvc := services.NewAuthService(st)
	cartSvc, err := services.NewCartService(ctx, st)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Auth:           authSvc,
		Cart:           cartSvc,
		ItemHandler:    &ItemHandler{Items: itemSvc},
		PostHandler:    &PostHandler{Posts: postSvc, SiteURL: cfg.SiteURL},
		ProductHandler: &ProductHandler{Products: productSvc},
		CartHandler:    &CartHandler{Cart: cartSvc, Products: productSvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		AdminHandler:   &AdminHandler{Products: productSvc},
		ExportHandler:  &ExportHandler{Products: productSvc},
	}, nil
}
