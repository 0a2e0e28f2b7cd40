package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
)

type GuideRepository struct {
	db *sql.DB
}

func NewGuideRepository(db *sql.DB) *GuideRepository {
	return &GuideRepository{db: db}
}

func (r *GuideRepository) GetBySlug(slug string) (*model.GuideArticle, error) {
	var a model.GuideArticle
	var title, meta, content, prompts []byte

	err := r.db.QueryRow(`
		SELECT id, slug, title, meta_description, content, image_prompts,
			cover_image_url, prompt_version, model_used, published_at, updated_at
		FROM guide_article
		WHERE slug = $1
	`, slug).Scan(&a.ID, &a.Slug, &title, &meta, &content, &prompts,
		&a.CoverImageURL, &a.PromptVersion, &a.ModelUsed, &a.PublishedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := unmarshalGuideFields(&a, title, meta, content, prompts); err != nil {
		return nil, err
	}

	return &a, nil
}

// Upsert inserts the article or overwrites the existing row with the
// same slug in one statement. The original published_at survives a
// conflict; updated_at always takes the new value.
func (r *GuideRepository) Upsert(a *model.GuideArticle) error {
	title, err := json.Marshal(a.Title)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(a.MetaDescription)
	if err != nil {
		return err
	}
	content, err := json.Marshal(a.Content)
	if err != nil {
		return err
	}
	prompts, err := json.Marshal(a.ImagePrompts)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO guide_article(slug, title, meta_description, content, image_prompts,
			cover_image_url, prompt_version, model_used, published_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			meta_description = EXCLUDED.meta_description,
			content = EXCLUDED.content,
			image_prompts = EXCLUDED.image_prompts,
			cover_image_url = EXCLUDED.cover_image_url,
			prompt_version = EXCLUDED.prompt_version,
			model_used = EXCLUDED.model_used,
			updated_at = EXCLUDED.updated_at
		RETURNING id, published_at
	`, a.Slug, title, meta, content, prompts,
		a.CoverImageURL, a.PromptVersion, a.ModelUsed, a.PublishedAt, a.UpdatedAt).
		Scan(&a.ID, &a.PublishedAt)
}

func (r *GuideRepository) GetFeed(limit int, offset int) ([]model.GuideArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, slug, title, meta_description, content, image_prompts,
			cover_image_url, prompt_version, model_used, published_at, updated_at
		FROM guide_article
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guides []model.GuideArticle
	for rows.Next() {
		var a model.GuideArticle
		var title, meta, content, prompts []byte
		err := rows.Scan(&a.ID, &a.Slug, &title, &meta, &content, &prompts,
			&a.CoverImageURL, &a.PromptVersion, &a.ModelUsed, &a.PublishedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if err := unmarshalGuideFields(&a, title, meta, content, prompts); err != nil {
			return nil, err
		}
		guides = append(guides, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return guides, nil
}

func (r *GuideRepository) GetFeedTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM guide_article`).Scan(&total)
	return total, err
}

func (r *GuideRepository) GetAllSlugs() ([]string, error) {
	rows, err := r.db.Query(`SELECT slug FROM guide_article ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slugs, nil
}

func unmarshalGuideFields(a *model.GuideArticle, title, meta, content, prompts []byte) error {
	if err := json.Unmarshal(title, &a.Title); err != nil {
		return err
	}
	if err := json.Unmarshal(meta, &a.MetaDescription); err != nil {
		return err
	}
	if err := json.Unmarshal(content, &a.Content); err != nil {
		return err
	}
	return json.Unmarshal(prompts, &a.ImagePrompts)
}
