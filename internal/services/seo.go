package services

import (
	"strings"

	"storefront/internal/domain"
)

// Defaults used when a post leaves a meta field empty.
const (
	DefaultMetaTitle       = "MERN Blog SEO - Professional Blog System"
	DefaultMetaDescription = "A high-performance blog application built with the MERN stack featuring advanced SEO optimization."
	DefaultMetaKeywords    = "mern stack, react, nodejs, express, mongodb, seo, blog"
	DefaultMetaImage       = "https://via.placeholder.com/1200x630.png?text=MERN+Blog"
)

// Meta is what a page head needs to describe a post to crawlers and link previews.
type Meta struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Keywords     string `json:"keywords"`
	Image        string `json:"image"`
	CanonicalURL string `json:"canonicalUrl"`
	Type         string `json:"type"`
	TwitterCard  string `json:"twitterCard"`
}

func MetaFor(p domain.Post, siteURL string) Meta {
	m := Meta{
		Title:        firstNonEmpty(p.MetaTitle, p.Title, DefaultMetaTitle),
		Description:  firstNonEmpty(p.MetaDescription, DefaultMetaDescription),
		Keywords:     DefaultMetaKeywords,
		Image:        firstNonEmpty(p.ImageURL, DefaultMetaImage),
		CanonicalURL: strings.TrimRight(siteURL, "/") + "/posts/" + p.Slug,
		Type:         "article",
		TwitterCard:  "summary_large_image",
	}
	if len(p.Keywords) > 0 {
		m.Keywords = strings.Join(p.Keywords, ", ")
	}
	return m
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
