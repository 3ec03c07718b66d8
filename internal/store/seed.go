package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

// Admin describes the account seeded for the /api/admin routes.
type Admin struct {
	Email    string
	Name     string
	Password string
}

// Seed inserts demo products, posts, an empty component list and the admin user
// for keys that hold nothing yet. Safe to run on every start (idempotent).
// It returns the keys it wrote.
func Seed(ctx context.Context, st Store, admin Admin) ([]string, error) {
	var wrote []string
	note := func(key string, ok bool, err error) error {
		if ok {
			wrote = append(wrote, key)
		}
		return err
	}

	ok, err := SeedIfAbsent(ctx, st, domain.ProductsKey, demoProducts())
	if err := note(domain.ProductsKey, ok, err); err != nil {
		return wrote, err
	}
	ok, err = SeedIfAbsent(ctx, st, domain.ComponentsKey, []domain.ProductComponent{})
	if err := note(domain.ComponentsKey, ok, err); err != nil {
		return wrote, err
	}
	ok, err = SeedIfAbsent(ctx, st, domain.PostsKey, demoPosts())
	if err := note(domain.PostsKey, ok, err); err != nil {
		return wrote, err
	}

	if admin.Email != "" && admin.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return wrote, err
		}
		name := admin.Name
		if name == "" {
			name = "Admin"
		}
		users := []domain.User{{
			ID:    "u-admin",
			Email: admin.Email,
			Name:  name,
			Hash:  string(h),
			Role:  domain.RoleAdmin,
		}}
		ok, err = SeedIfAbsent(ctx, st, domain.UsersKey, users)
		if err := note(domain.UsersKey, ok, err); err != nil {
			return wrote, err
		}
	}
	return wrote, nil
}

func demoProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "p-airpods", Name: "Airpods Wireless Bluetooth Headphones",
			Image:       "/images/airpods.jpg",
			Description: "Bluetooth technology lets you connect it with compatible devices wirelessly.",
			Brand:       "Apple", Category: "Electronics",
			Price: decimal.RequireFromString("89.99"), CountInStock: 10, Rating: 4.5, NumReviews: 12,
		},
		{
			ID: "p-iphone", Name: "iPhone 13 Pro 256GB Memory",
			Image:       "/images/phone.jpg",
			Description: "Introducing the iPhone 13 Pro. A transformative triple-camera system.",
			Brand:       "Apple", Category: "Electronics",
			Price: decimal.RequireFromString("599.99"), CountInStock: 7, Rating: 4.0, NumReviews: 8,
		},
		{
			ID: "p-camera", Name: "Cannon EOS 80D DSLR Camera",
			Image:       "/images/camera.jpg",
			Description: "Characterized by versatile imaging specs.",
			Brand:       "Cannon", Category: "Electronics",
			Price: decimal.RequireFromString("929.99"), CountInStock: 5, Rating: 3, NumReviews: 12,
		},
		{
			ID: "p-mouse", Name: "Logitech G-Series Gaming Mouse",
			Image:       "/images/mouse.jpg",
			Description: "Get a better handle on your games with this Logitech LIGHTSYNC gaming mouse.",
			Brand:       "Logitech", Category: "Electronics",
			Price: decimal.RequireFromString("49.99"), CountInStock: 0, Rating: 3.5, NumReviews: 10,
		},
	}
}

func demoPosts() []domain.Post {
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	mk := func(title, slug, content string, kw []string, age time.Duration) domain.Post {
		at := base.Add(-age)
		desc := firstRunes(content, 150)
		return domain.Post{
			ID:              uuid.NewString(),
			Title:           title,
			Slug:            slug,
			Content:         content,
			ImageURL:        "https://via.placeholder.com/800x400.png?text=" + slug,
			Author:          "Admin",
			MetaTitle:       title,
			MetaDescription: desc,
			Keywords:        kw,
			CreatedAt:       at,
			UpdatedAt:       at,
		}
	}
	return []domain.Post{
		mk("Getting Started with the MERN Stack", "getting-started-with-the-mern-stack",
			"<p>MongoDB, Express, React and Node.js form a full JavaScript stack for building web applications.</p>",
			[]string{"mern", "mongodb", "react", "node"}, 0),
		mk("SEO Basics for Single Page Apps", "seo-basics-for-single-page-apps",
			"<p>Meta tags, canonical links and server rendering all help search engines understand client rendered pages.</p>",
			[]string{"seo", "react", "meta tags"}, 24*time.Hour),
	}
}

// firstRunes returns at most n runes of s.
func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
