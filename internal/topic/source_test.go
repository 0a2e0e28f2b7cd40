package topic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
)

func writeTopicsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeTopicsFile(t, `[
		{"topic": "Best Beaches in Samos"},
		{"topic": "Marmaris Nightlife", "slug": "marmaris-nightlife"},
		{"topic": "Gumbet Beach Guide", "content_override": "<p>pinned</p>", "image_prompts": [
			{"placeholder": "[IMAGE_PLACEHOLDER_1]", "prompt": "gumbet beach at dusk", "caption": "Gumbet"}
		]}
	]`)

	topics, err := Load(path)

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(topics))
	assert.Equal(t, "Best Beaches in Samos", topics[0].Topic)
	assert.Equal(t, "marmaris-nightlife", topics[1].Slug)
	assert.Equal(t, "<p>pinned</p>", topics[2].ContentOverride)
	assert.Equal(t, 1, len(topics[2].ImagePrompts))
}

func TestLoadRejectsEmptyTopic(t *testing.T) {
	path := writeTopicsFile(t, `[{"topic": "  "}]`)

	_, err := Load(path)

	assert.NotEqual(t, nil, err)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := writeTopicsFile(t, `{"topic": "not an array"`)

	_, err := Load(path)

	assert.NotEqual(t, nil, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	assert.NotEqual(t, nil, err)
}
