package llm

import "github.com/samecityapp/yeriniayirV1-sub002/internal/model"

// TopicRequest is one unit of work for a guide writer.
type TopicRequest struct {
	Topic string
	// Slug overrides the slug derived from the generated title. Optional.
	Slug string
}

type GuideWriter interface {
	GenerateGuide(req TopicRequest) (*model.GuideArticle, error)
}
