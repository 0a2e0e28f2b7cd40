package model

// RegenerateJob is the payload queued when an operator forces a
// rebuild of one published guide.
type RegenerateJob struct {
	Slug  string `json:"slug"`
	Topic string `json:"topic"`
}
