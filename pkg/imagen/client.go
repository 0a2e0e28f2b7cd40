package imagen

import "time"

// Generator produces one image for a prompt and persists it under the
// given filename, returning the public reference path for the file.
type Generator interface {
	GenerateImage(prompt string, filename string) (string, error)
}

// Policy controls the retry behaviour for rate-limited requests. Only
// HTTP 429 is retried; every other failure is final for that image.
type Policy struct {
	MaxAttempts    int
	RetryBaseSleep time.Duration
	// RetryStep is added to the sleep on each further retry.
	RetryStep time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		RetryBaseSleep: 30 * time.Second,
		RetryStep:      10 * time.Second,
	}
}
