package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
)

type guideResponse struct {
	Title           string              `json:"title"`
	Slug            string              `json:"slug"`
	MetaDescription string              `json:"meta_description"`
	Content         string              `json:"content"`
	ImagePrompts    []model.ImagePrompt `json:"image_prompts"`
}

// parseGuideResponse validates the raw model output and fills in the
// defaults the writers rely on: a derived slug when none was returned
// and an empty prompt list when the model skipped images.
func parseGuideResponse(raw string, req TopicRequest, modelName string) (*model.GuideArticle, error) {
	content := cleanJSONResponse(raw)

	var parsed guideResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	if strings.TrimSpace(parsed.Title) == "" {
		return nil, fmt.Errorf("response missing title, content: %s", content)
	}
	if strings.TrimSpace(parsed.Content) == "" {
		return nil, fmt.Errorf("response missing content, content: %s", content)
	}

	slug := req.Slug
	if slug == "" {
		slug = parsed.Slug
	}
	if slug == "" {
		slug = parsed.Title
	}
	slug = Slugify(slug)
	if slug == "" {
		return nil, fmt.Errorf("could not derive a slug from title %q", parsed.Title)
	}

	return &model.GuideArticle{
		Slug:            slug,
		Title:           model.Localize(parsed.Title),
		MetaDescription: model.Localize(clipMeta(parsed.MetaDescription)),
		Content:         model.Localize(parsed.Content),
		ImagePrompts:    usablePrompts(parsed.ImagePrompts, parsed.Content),
		PromptVersion:   promptVersion,
		ModelUsed:       modelName,
	}, nil
}

// usablePrompts keeps only prompts whose placeholder token appears
// exactly once in the body; anything else cannot be spliced safely.
func usablePrompts(prompts []model.ImagePrompt, content string) []model.ImagePrompt {
	usable := make([]model.ImagePrompt, 0, len(prompts))
	for _, p := range prompts {
		if p.Placeholder == "" || p.Prompt == "" {
			continue
		}
		if strings.Count(content, p.Placeholder) != 1 {
			continue
		}
		usable = append(usable, p)
	}
	return usable
}
