package publisher

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
)

type GuideStore interface {
	GetBySlug(slug string) (*model.GuideArticle, error)
	Upsert(a *model.GuideArticle) error
}

type Publisher struct {
	store GuideStore
}

func New(store GuideStore) *Publisher {
	return &Publisher{store: store}
}

// Publish splices the generated image references into the article body
// and upserts the result. refs must be in image-prompt order; an empty
// ref means generation failed for that slot and its placeholder is
// removed instead.
//
// Unless force is set, an existing article with the same slug is left
// untouched and Publish returns (false, nil). This is what makes a
// rerun of the whole batch safe.
func (p *Publisher) Publish(doc *model.GuideArticle, refs []string, force bool) (bool, error) {
	if !force {
		existing, err := p.store.GetBySlug(doc.Slug)
		if err != nil {
			return false, fmt.Errorf("checking existing slug %q: %w", doc.Slug, err)
		}
		if existing != nil {
			slog.Info("slug already published, skipping", "slug", doc.Slug)
			return false, nil
		}
	}

	spliceImages(doc, refs)
	sanitize(doc)

	now := time.Now()
	doc.PublishedAt = now
	doc.UpdatedAt = now

	if err := p.store.Upsert(doc); err != nil {
		return false, fmt.Errorf("upserting %q: %w", doc.Slug, err)
	}

	return true, nil
}

// spliceImages replaces each placeholder token with an <img> element,
// in declared order, across every localized body variant. The first
// successful image becomes the cover.
func spliceImages(doc *model.GuideArticle, refs []string) {
	for i, prompt := range doc.ImagePrompts {
		ref := ""
		if i < len(refs) {
			ref = refs[i]
		}

		replacement := ""
		if ref != "" {
			replacement = fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy" />`, ref, prompt.Caption)
			if doc.CoverImageURL == "" {
				doc.CoverImageURL = ref
			}
		}

		for lang, body := range doc.Content {
			doc.Content[lang] = strings.ReplaceAll(body, prompt.Placeholder, replacement)
		}
	}
}

// sanitize strips NUL bytes from every string field before the write;
// Postgres rejects text values containing them.
func sanitize(doc *model.GuideArticle) {
	doc.Slug = stripNUL(doc.Slug)
	doc.CoverImageURL = stripNUL(doc.CoverImageURL)
	stripNULMap(doc.Title)
	stripNULMap(doc.MetaDescription)
	stripNULMap(doc.Content)
	for i := range doc.ImagePrompts {
		doc.ImagePrompts[i].Placeholder = stripNUL(doc.ImagePrompts[i].Placeholder)
		doc.ImagePrompts[i].Prompt = stripNUL(doc.ImagePrompts[i].Prompt)
		doc.ImagePrompts[i].Caption = stripNUL(doc.ImagePrompts[i].Caption)
	}
}

func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

func stripNULMap(m map[string]string) {
	for k, v := range m {
		m[k] = stripNUL(v)
	}
}
