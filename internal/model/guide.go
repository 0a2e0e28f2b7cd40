package model

import "time"

const (
	// LangEnglish is the language every guide is generated in.
	LangEnglish = "en"
	// LangTurkish is filled with PendingTranslation until an editor translates it.
	LangTurkish = "tr"

	PendingTranslation = "Çeviri bekleniyor"
)

// ImagePrompt describes one image the article body expects: the literal
// placeholder token inside the HTML, the text-to-image prompt, and the
// caption used as alt text once the image is spliced in.
type ImagePrompt struct {
	Placeholder string `json:"placeholder"`
	Prompt      string `json:"prompt"`
	Caption     string `json:"caption"`
}

// GuideArticle is the persisted shape of one published travel guide.
// Localized fields are keyed by language code and stored as JSONB.
type GuideArticle struct {
	ID              int64
	Slug            string
	Title           map[string]string
	MetaDescription map[string]string
	Content         map[string]string
	ImagePrompts    []ImagePrompt
	CoverImageURL   string
	PromptVersion   string
	ModelUsed       string
	PublishedAt     time.Time
	UpdatedAt       time.Time
}

// English returns the English variant of a localized field.
func English(localized map[string]string) string {
	return localized[LangEnglish]
}

// Localize wraps an English string into the localized map shape, with
// the Turkish slot marked as pending.
func Localize(en string) map[string]string {
	return map[string]string{
		LangEnglish: en,
		LangTurkish: PendingTranslation,
	}
}
