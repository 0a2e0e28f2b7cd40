package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/topic"
	"github.com/samecityapp/yeriniayirV1-sub002/pkg/imagen"
	"github.com/samecityapp/yeriniayirV1-sub002/pkg/llm"
)

const (
	// Both delays exist to stay under the shared per-account rate limit
	// of the generative services, so the pipeline is strictly
	// sequential: one external call in flight at any time.
	defaultInterImageDelay = 10 * time.Second
	defaultInterTopicDelay = 30 * time.Second
)

type SlugChecker interface {
	GetBySlug(slug string) (*model.GuideArticle, error)
}

type GuidePublisher interface {
	Publish(doc *model.GuideArticle, refs []string, force bool) (bool, error)
}

type Pipeline struct {
	writer    llm.GuideWriter
	images    imagen.Generator
	store     SlugChecker
	publisher GuidePublisher

	interImageDelay time.Duration
	interTopicDelay time.Duration
	sleep           func(time.Duration)
}

func New(writer llm.GuideWriter, images imagen.Generator, store SlugChecker, publisher GuidePublisher) *Pipeline {
	return &Pipeline{
		writer:          writer,
		images:          images,
		store:           store,
		publisher:       publisher,
		interImageDelay: defaultInterImageDelay,
		interTopicDelay: defaultInterTopicDelay,
		sleep:           time.Sleep,
	}
}

type Summary struct {
	Published int
	Skipped   int
	Failed    int
}

// Run processes the batch in order, one topic at a time. A failed
// topic never aborts the batch; cancelling ctx stops cleanly at the
// next topic boundary, which is safe because published topics are
// skipped on the following run.
func (p *Pipeline) Run(ctx context.Context, topics []topic.TopicSpec) Summary {
	var summary Summary

	for i, spec := range topics {
		if ctx.Err() != nil {
			slog.Warn("batch aborted", "remaining", len(topics)-i)
			break
		}

		if i > 0 {
			p.sleep(p.interTopicDelay)
		}

		switch published, err := p.processTopic(spec, false); {
		case err != nil:
			slog.Error("topic failed", "topic", spec.Topic, "error", err)
			summary.Failed++
		case !published:
			summary.Skipped++
		default:
			summary.Published++
		}
	}

	slog.Info("batch complete",
		"published", summary.Published,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	return summary
}

// RunOne regenerates a single topic, overwriting any existing article
// with the same slug when force is set. This is the operator path used
// by the regeneration worker.
func (p *Pipeline) RunOne(spec topic.TopicSpec, force bool) error {
	published, err := p.processTopic(spec, force)
	if err != nil {
		return err
	}
	if !published {
		slog.Info("topic skipped, slug already published", "topic", spec.Topic)
	}
	return nil
}

func (p *Pipeline) processTopic(spec topic.TopicSpec, force bool) (bool, error) {
	doc, err := p.buildDocument(spec)
	if err != nil {
		return false, fmt.Errorf("generating guide: %w", err)
	}

	slog.Info("guide generated", "topic", spec.Topic, "slug", doc.Slug, "images", len(doc.ImagePrompts))

	if !force {
		existing, err := p.store.GetBySlug(doc.Slug)
		if err != nil {
			return false, fmt.Errorf("checking slug %q: %w", doc.Slug, err)
		}
		if existing != nil {
			slog.Info("slug already published, skipping topic", "slug", doc.Slug)
			return false, nil
		}
	}

	refs := p.generateImages(doc)

	published, err := p.publisher.Publish(doc, refs, force)
	if err != nil {
		return false, fmt.Errorf("publishing: %w", err)
	}

	if published {
		slog.Info("guide published", "slug", doc.Slug, "cover", doc.CoverImageURL)
	}

	return published, nil
}

// buildDocument produces the article either from the writer or, for
// pinned operator topics, straight from the overrides in the spec.
func (p *Pipeline) buildDocument(spec topic.TopicSpec) (*model.GuideArticle, error) {
	if spec.ContentOverride != "" {
		slug := spec.Slug
		if slug == "" {
			slug = llm.Slugify(spec.Topic)
		}
		return &model.GuideArticle{
			Slug:            slug,
			Title:           model.Localize(spec.Topic),
			MetaDescription: model.Localize(""),
			Content:         model.Localize(spec.ContentOverride),
			ImagePrompts:    spec.ImagePrompts,
		}, nil
	}

	doc, err := p.writer.GenerateGuide(llm.TopicRequest{Topic: spec.Topic, Slug: spec.Slug})
	if err != nil {
		return nil, err
	}

	if len(spec.ImagePrompts) > 0 {
		doc.ImagePrompts = spec.ImagePrompts
	}

	return doc, nil
}

// generateImages runs the prompts strictly in order, pausing between
// calls. A failed slot degrades to an empty reference; the article
// still publishes without that image.
func (p *Pipeline) generateImages(doc *model.GuideArticle) []string {
	refs := make([]string, len(doc.ImagePrompts))

	for i, prompt := range doc.ImagePrompts {
		if i > 0 {
			p.sleep(p.interImageDelay)
		}

		filename := fmt.Sprintf("%s-%d.jpg", doc.Slug, i+1)

		ref, err := p.images.GenerateImage(prompt.Prompt, filename)
		if err != nil {
			slog.Error("image generation failed, continuing without image",
				"slug", doc.Slug, "placeholder", prompt.Placeholder, "error", err)
			continue
		}

		refs[i] = ref
	}

	return refs
}
