package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type PostHandler struct {
	Posts   *services.PostService
	SiteURL string
}

func (h *PostHandler) slug(c *fiber.Ctx) (string, bool) {
	return validate.Slug(c.Params("slug"))
}

// GET /api/posts
func (h *PostHandler) List(c *fiber.Ctx) error {
	posts, err := h.Posts.List(c.UserContext())
	if err != nil {
		return fail(c, "posts.list", err, nil)
	}
	return c.JSON(posts)
}

// GET /api/posts/:slug
func (h *PostHandler) Get(c *fiber.Ctx) error {
	slug, ok := h.slug(c)
	if !ok {
		return badParam(c, "slug")
	}
	p, err := h.Posts.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return fail(c, "posts.get", err, map[string]any{"slug": slug})
	}
	return c.JSON(p)
}

// POST /api/posts
func (h *PostHandler) Create(c *fiber.Ctx) error {
	var in services.PostInput
	if ok, err := bind(c, "posts.create", &in); !ok {
		return err
	}
	p, err := h.Posts.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "posts.create", err, map[string]any{"title": in.Title})
	}
	applog.Audit(c, "posts.create", map[string]any{"slug": p.Slug})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PATCH /api/posts/:slug
func (h *PostHandler) Update(c *fiber.Ctx) error {
	slug, ok := h.slug(c)
	if !ok {
		return badParam(c, "slug")
	}
	var patch services.PostPatch
	if ok, err := bind(c, "posts.update", &patch); !ok {
		return err
	}
	p, err := h.Posts.Update(c.UserContext(), slug, patch)
	if err != nil {
		return fail(c, "posts.update", err, map[string]any{"slug": slug})
	}
	applog.Audit(c, "posts.update", map[string]any{"slug": slug, "new_slug": p.Slug})
	return c.JSON(p)
}

// DELETE /api/posts/:slug
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	slug, ok := h.slug(c)
	if !ok {
		return badParam(c, "slug")
	}
	if err := h.Posts.Delete(c.UserContext(), slug); err != nil {
		return fail(c, "posts.delete", err, map[string]any{"slug": slug})
	}
	applog.Audit(c, "posts.delete", map[string]any{"slug": slug})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/posts/:slug/meta
func (h *PostHandler) Meta(c *fiber.Ctx) error {
	slug, ok := h.slug(c)
	if !ok {
		return badParam(c, "slug")
	}
	p, err := h.Posts.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return fail(c, "posts.meta", err, map[string]any{"slug": slug})
	}
	return c.JSON(services.MetaFor(p, h.SiteURL))
}

// GET /posts/:slug/head renders the <head> tags for a post page.
func (h *PostHandler) Head(c *fiber.Ctx) error {
	slug, ok := h.slug(c)
	if !ok {
		return badParam(c, "slug")
	}
	p, err := h.Posts.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return fail(c, "posts.head", err, map[string]any{"slug": slug})
	}
	return render(c, "seo_head", fiber.Map{"Meta": services.MetaFor(p, h.SiteURL)})
}

// GET /api/assistant/context
func (h *PostHandler) AssistantContext(c *fiber.Ctx) error {
	ac, err := h.Posts.AssistantContext(c.UserContext())
	if err != nil {
		return fail(c, "assistant.context", err, nil)
	}
	return c.JSON(ac)
}
