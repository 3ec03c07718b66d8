package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/store"
)

const (
	postListLatency  = 500 * time.Millisecond
	postGetLatency   = 300 * time.Millisecond
	postWriteLatency = 600 * time.Millisecond
	postDelLatency   = 400 * time.Millisecond

	metaDescriptionLen = 150
	defaultAuthor      = "Admin"
)

type PostService struct {
	base
	Store store.Store
	mu    sync.Mutex
}

func NewPostService(st store.Store, p Pacer) *PostService {
	return &PostService{base: newBase(p), Store: st}
}

type PostInput struct {
	Title           string   `json:"title" validate:"required,notblank,max=200"`
	Content         string   `json:"content" validate:"required,notblank"`
	ImageURL        string   `json:"imageUrl" validate:"omitempty,url"`
	Author          string   `json:"author" validate:"max=100"`
	MetaTitle       string   `json:"metaTitle" validate:"max=200"`
	MetaDescription string   `json:"metaDescription" validate:"max=300"`
	Keywords        []string `json:"keywords" validate:"dive,max=50"`
}

type PostPatch struct {
	Title           *string   `json:"title" validate:"omitnil,max=200"`
	Content         *string   `json:"content" validate:"omitnil,notblank"`
	ImageURL        *string   `json:"imageUrl" validate:"omitnil,max=500"`
	Author          *string   `json:"author" validate:"omitnil,max=100"`
	MetaTitle       *string   `json:"metaTitle" validate:"omitnil,max=200"`
	MetaDescription *string   `json:"metaDescription" validate:"omitnil,max=300"`
	Keywords        *[]string `json:"keywords" validate:"omitnil,dive,max=50"`
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (s *PostService) newPost(in PostInput) domain.Post {
	now := s.now()
	p := domain.Post{
		ID:              s.newID(),
		Title:           in.Title,
		Slug:            Slugify(in.Title),
		Content:         in.Content,
		ImageURL:        in.ImageURL,
		Author:          in.Author,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		Keywords:        in.Keywords,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Author == "" {
		p.Author = defaultAuthor
	}
	if p.MetaTitle == "" {
		p.MetaTitle = p.Title
	}
	if p.MetaDescription == "" {
		p.MetaDescription = truncateRunes(p.Content, metaDescriptionLen)
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	return p
}

// List returns posts newest first; posts created at the same instant keep storage order.
func (s *PostService) List(ctx context.Context) (posts []domain.Post, err error) {
	defer func() { observe("posts", "list", err) }()
	ctx, err = s.begin(ctx, postListLatency)
	if err != nil {
		return nil, err
	}
	posts, err = store.ReadCollection[domain.Post](ctx, s.Store, domain.PostsKey)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (p domain.Post, err error) {
	defer func() { observe("posts", "get", err) }()
	ctx, err = s.begin(ctx, postGetLatency)
	if err != nil {
		return domain.Post{}, err
	}
	posts, err := store.ReadCollection[domain.Post](ctx, s.Store, domain.PostsKey)
	if err != nil {
		return domain.Post{}, err
	}
	if i := indexBySlug(posts, slug); i >= 0 {
		return posts[i], nil
	}
	return domain.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
}

func (s *PostService) Create(ctx context.Context, in PostInput) (p domain.Post, err error) {
	defer func() { observe("posts", "create", err) }()
	ctx, err = s.begin(ctx, postWriteLatency)
	if err != nil {
		return domain.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := store.ReadCollection[domain.Post](ctx, s.Store, domain.PostsKey)
	if err != nil {
		return domain.Post{}, err
	}
	for _, x := range posts {
		if x.Title == in.Title {
			return domain.Post{}, fmt.Errorf("post title %q: %w", in.Title, ErrDuplicate)
		}
	}
	p = s.newPost(in)
	posts = append(posts, p)
	if err := store.WriteCollection(ctx, s.Store, domain.PostsKey, posts); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

// Update merges patch into the post at slug. A non-empty new title moves the
// post to the slug derived from it.
func (s *PostService) Update(ctx context.Context, slug string, patch PostPatch) (p domain.Post, err error) {
	defer func() { observe("posts", "update", err) }()
	ctx, err = s.begin(ctx, postWriteLatency)
	if err != nil {
		return domain.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := store.ReadCollection[domain.Post](ctx, s.Store, domain.PostsKey)
	if err != nil {
		return domain.Post{}, err
	}
	idx := indexBySlug(posts, slug)
	if idx < 0 {
		return domain.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}

	p = posts[idx]
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		for i, x := range posts {
			if i != idx && x.Title == *patch.Title {
				return domain.Post{}, fmt.Errorf("post title %q: %w", *patch.Title, ErrDuplicate)
			}
		}
		p.Title = *patch.Title
		p.Slug = Slugify(p.Title)
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.MetaTitle != nil {
		p.MetaTitle = *patch.MetaTitle
	}
	if patch.MetaDescription != nil {
		p.MetaDescription = *patch.MetaDescription
	}
	if patch.Keywords != nil {
		p.Keywords = append([]string{}, (*patch.Keywords)...)
	}
	p.UpdatedAt = s.touch(p.UpdatedAt)
	posts[idx] = p

	if err := store.WriteCollection(ctx, s.Store, domain.PostsKey, posts); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

// Delete removes every post at slug, including posts whose titles differ only
// by case or punctuation and so share it. An unknown slug is not an error.
func (s *PostService) Delete(ctx context.Context, slug string) (err error) {
	defer func() { observe("posts", "delete", err) }()
	ctx, err = s.begin(ctx, postDelLatency)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := store.ReadCollection[domain.Post](ctx, s.Store, domain.PostsKey)
	if err != nil {
		return err
	}
	kept := posts[:0]
	for _, x := range posts {
		if x.Slug != slug {
			kept = append(kept, x)
		}
	}
	if len(kept) == len(posts) {
		return nil
	}
	return store.WriteCollection(ctx, s.Store, domain.PostsKey, kept)
}

// indexBySlug returns the first post with slug, or -1.
func indexBySlug(posts []domain.Post, slug string) int {
	for i := range posts {
		if posts[i].Slug == slug {
			return i
		}
	}
	return -1
}
