package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prices travel as JSON numbers, the format stored by earlier clients.
func init() { decimal.MarshalJSONWithoutQuotes = true }

// Storage keys, one JSON array per collection.
const (
	ItemsKey      = "mern_app_items"
	PostsKey      = "mern_blog_posts"
	ProductsKey   = "mern_products"
	ComponentsKey = "mern_components"
	CartKey       = "cartItems"
	UsersKey      = "mern_users"
	SessionsKey   = "mern_sessions"
)

type Item struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Post struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"` // markup, rendered by the client
	ImageURL        string    `json:"imageUrl"`
	Author          string    `json:"author"`
	MetaTitle       string    `json:"metaTitle"`
	MetaDescription string    `json:"metaDescription"`
	Keywords        []string  `json:"keywords"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Product struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
	Rating       float64         `json:"rating"`     // 0..5, server owned
	NumReviews   int             `json:"numReviews"` // server owned
}

type ProductComponent struct {
	ID          string `json:"_id"`
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// CartItem is a product snapshot taken when it was added, plus the requested quantity.
type CartItem struct {
	Product
	Qty int `json:"qty"`
}

// LineTotal is price times quantity.
func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Qty)))
}
