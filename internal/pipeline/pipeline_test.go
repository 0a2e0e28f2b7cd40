package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/topic"
	"github.com/samecityapp/yeriniayirV1-sub002/pkg/llm"
)

type fakeWriter struct {
	calls []string
	err   error
}

func (f *fakeWriter) GenerateGuide(req llm.TopicRequest) (*model.GuideArticle, error) {
	f.calls = append(f.calls, req.Topic)
	if f.err != nil {
		return nil, f.err
	}

	slug := req.Slug
	if slug == "" {
		slug = llm.Slugify(req.Topic)
	}

	return &model.GuideArticle{
		Slug:            slug,
		Title:           model.Localize(req.Topic),
		MetaDescription: model.Localize("meta"),
		Content:         model.Localize("<p>intro</p>[IMAGE_PLACEHOLDER_1]<p>more</p>[IMAGE_PLACEHOLDER_2]"),
		ImagePrompts: []model.ImagePrompt{
			{Placeholder: "[IMAGE_PLACEHOLDER_1]", Prompt: "photo one", Caption: "One"},
			{Placeholder: "[IMAGE_PLACEHOLDER_2]", Prompt: "photo two", Caption: "Two"},
		},
	}, nil
}

type fakeImages struct {
	calls    []string // filenames, in call order
	failFor  map[string]bool
	failWith error
}

func (f *fakeImages) GenerateImage(prompt string, filename string) (string, error) {
	f.calls = append(f.calls, filename)
	if f.failFor[filename] {
		err := f.failWith
		if err == nil {
			err = errors.New("predict request: status 400")
		}
		return "", err
	}
	return "/images/articles/" + filename, nil
}

type fakeSlugStore struct {
	existing map[string]bool
}

func (f *fakeSlugStore) GetBySlug(slug string) (*model.GuideArticle, error) {
	if f.existing[slug] {
		return &model.GuideArticle{Slug: slug}, nil
	}
	return nil, nil
}

type publishCall struct {
	slug  string
	refs  []string
	force bool
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) Publish(doc *model.GuideArticle, refs []string, force bool) (bool, error) {
	f.calls = append(f.calls, publishCall{slug: doc.Slug, refs: refs, force: force})
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

func newTestPipeline(writer *fakeWriter, images *fakeImages, store *fakeSlugStore, pub *fakePublisher) (*Pipeline, *[]time.Duration) {
	p := New(writer, images, store, pub)
	slept := &[]time.Duration{}
	p.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return p, slept
}

func TestRunPublishesBatchInOrder(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{}}
	pub := &fakePublisher{}
	p, slept := newTestPipeline(writer, images, store, pub)

	topics := []topic.TopicSpec{
		{Topic: "Best Beaches in Samos"},
		{Topic: "Marmaris Nightlife"},
	}

	summary := p.Run(context.Background(), topics)

	assert.Equal(t, 2, summary.Published)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, []string{"Best Beaches in Samos", "Marmaris Nightlife"}, writer.calls)
	assert.Equal(t, []string{
		"best-beaches-in-samos-1.jpg",
		"best-beaches-in-samos-2.jpg",
		"marmaris-nightlife-1.jpg",
		"marmaris-nightlife-2.jpg",
	}, images.calls)

	assert.Equal(t, 2, len(pub.calls))
	assert.Equal(t, "best-beaches-in-samos", pub.calls[0].slug)
	assert.Equal(t, []string{
		"/images/articles/best-beaches-in-samos-1.jpg",
		"/images/articles/best-beaches-in-samos-2.jpg",
	}, pub.calls[0].refs)
	assert.Equal(t, false, pub.calls[0].force)

	// One inter-image pause per topic (before the second image) plus
	// one inter-topic cooldown.
	assert.Equal(t, 3, len(*slept))
}

func TestRunSkipsExistingSlugBeforeImageGeneration(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{"best-beaches-in-samos": true}}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(writer, images, store, pub)

	summary := p.Run(context.Background(), []topic.TopicSpec{{Topic: "Best Beaches in Samos"}})

	assert.Equal(t, 0, summary.Published)
	assert.Equal(t, 1, summary.Skipped)

	// Short-circuits after the slug check: no image calls, no publish.
	assert.Equal(t, 0, len(images.calls))
	assert.Equal(t, 0, len(pub.calls))
}

func TestRunContinuesAfterGenerationFailure(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{}}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(writer, images, store, pub)

	writer.err = errors.New("openai API error: 500")

	summary := p.Run(context.Background(), []topic.TopicSpec{
		{Topic: "Topic One"},
		{Topic: "Topic Two"},
	})

	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 2, len(writer.calls))
	assert.Equal(t, 0, len(pub.calls))
}

func TestRunFailedImageSlotStaysEmpty(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{failFor: map[string]bool{"best-beaches-in-samos-1.jpg": true}}
	store := &fakeSlugStore{existing: map[string]bool{}}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(writer, images, store, pub)

	summary := p.Run(context.Background(), []topic.TopicSpec{{Topic: "Best Beaches in Samos"}})

	assert.Equal(t, 1, summary.Published)
	assert.Equal(t, 1, len(pub.calls))
	assert.Equal(t, []string{"", "/images/articles/best-beaches-in-samos-2.jpg"}, pub.calls[0].refs)
}

func TestRunContinuesAfterPublishFailure(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{}}
	pub := &fakePublisher{err: errors.New("constraint violation")}
	p, _ := newTestPipeline(writer, images, store, pub)

	summary := p.Run(context.Background(), []topic.TopicSpec{
		{Topic: "Topic One"},
		{Topic: "Topic Two"},
	})

	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 2, len(pub.calls))
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{}}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(writer, images, store, pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := p.Run(ctx, []topic.TopicSpec{{Topic: "Topic One"}})

	assert.Equal(t, 0, summary.Published)
	assert.Equal(t, 0, len(writer.calls))
}

func TestRunOneForceBypassesSkip(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{"best-beaches": true}}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(writer, images, store, pub)

	err := p.RunOne(topic.TopicSpec{Topic: "Best Beaches in Samos", Slug: "best-beaches"}, true)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(pub.calls))
	assert.Equal(t, "best-beaches", pub.calls[0].slug)
	assert.Equal(t, true, pub.calls[0].force)
}

func TestRunContentOverrideSkipsWriter(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{}}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(writer, images, store, pub)

	spec := topic.TopicSpec{
		Topic:           "Gumbet Beach Guide",
		ContentOverride: "<p>hand-written body</p>[IMAGE_PLACEHOLDER_1]",
		ImagePrompts: []model.ImagePrompt{
			{Placeholder: "[IMAGE_PLACEHOLDER_1]", Prompt: "gumbet beach", Caption: "Gumbet"},
		},
	}

	summary := p.Run(context.Background(), []topic.TopicSpec{spec})

	assert.Equal(t, 1, summary.Published)
	assert.Equal(t, 0, len(writer.calls))
	assert.Equal(t, []string{"gumbet-beach-guide-1.jpg"}, images.calls)
}

func TestRunUniqueFilenamesPerArticle(t *testing.T) {
	writer := &fakeWriter{}
	images := &fakeImages{}
	store := &fakeSlugStore{existing: map[string]bool{}}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(writer, images, store, pub)

	p.Run(context.Background(), []topic.TopicSpec{{Topic: "Topic A"}, {Topic: "Topic B"}})

	seen := map[string]bool{}
	for _, name := range images.calls {
		if seen[name] {
			t.Errorf("duplicate image filename %q", name)
		}
		seen[name] = true
	}
	assert.Equal(t, fmt.Sprintf("%s-1.jpg", "topic-a"), images.calls[0])
}
