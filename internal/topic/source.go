package topic

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
)

// TopicSpec is one entry of a batch file. Only Topic is required; the
// other fields are operator overrides for rerunning or pinning a
// specific article (fixed slug, pre-written body, pre-chosen prompts).
type TopicSpec struct {
	Topic           string              `json:"topic"`
	Slug            string              `json:"slug,omitempty"`
	ContentOverride string              `json:"content_override,omitempty"`
	ImagePrompts    []model.ImagePrompt `json:"image_prompts,omitempty"`
}

// Load reads an ordered batch of topics from a JSON array file. Order
// is preserved; the pipeline processes topics exactly as listed.
func Load(path string) ([]TopicSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}

	var topics []TopicSpec
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("parsing topics file %s: %w", path, err)
	}

	for i, t := range topics {
		if strings.TrimSpace(t.Topic) == "" {
			return nil, fmt.Errorf("topics file %s: entry %d has an empty topic", path, i)
		}
	}

	return topics, nil
}
