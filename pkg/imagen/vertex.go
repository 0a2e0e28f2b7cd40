package imagen

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultAspectRatio = "16:9"
	// Appended to every prompt to bias the model toward usable photography.
	styleSuffix = ", photorealistic, natural golden hour light, high resolution travel photography, no text, no watermark"
)

type VertexClient struct {
	endpoint     string
	apiKey       string
	outputDir    string
	publicPrefix string
	policy       Policy
	httpClient   *http.Client

	// sleep is swapped out in tests so retries do not actually wait.
	sleep func(time.Duration)
}

// NewVertexClient builds a client for a Vertex-style predict endpoint.
// Images are written under outputDir and referenced in published
// content as publicPrefix + "/" + filename.
func NewVertexClient(endpoint, apiKey, outputDir, publicPrefix string) *VertexClient {
	return &VertexClient{
		endpoint:     endpoint,
		apiKey:       apiKey,
		outputDir:    outputDir,
		publicPrefix: publicPrefix,
		policy:       DefaultPolicy(),
		httpClient:   &http.Client{Timeout: 90 * time.Second},
		sleep:        time.Sleep,
	}
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount      int    `json:"sampleCount"`
	AspectRatio      string `json:"aspectRatio"`
	SafetySetting    string `json:"safetySetting"`
	PersonGeneration string `json:"personGeneration"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
}

// GenerateImage returns the public reference for filename, generating
// the file first if it does not exist yet. Re-runs are free: an
// existing file short-circuits before any network call.
func (c *VertexClient) GenerateImage(prompt string, filename string) (string, error) {
	target := filepath.Join(c.outputDir, filename)
	ref := c.publicPrefix + "/" + filename

	if _, err := os.Stat(target); err == nil {
		slog.Info("image already exists, skipping generation", "file", filename)
		return ref, nil
	}

	data, err := c.requestImage(prompt)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return ref, nil
}

// requestImage calls the predict endpoint, retrying only on HTTP 429
// with a bounded linear backoff. Any other failure is final.
func (c *VertexClient) requestImage(prompt string) ([]byte, error) {
	body, err := json.Marshal(predictRequest{
		Instances: []predictInstance{{Prompt: prompt + styleSuffix}},
		Parameters: predictParameters{
			SampleCount:      1,
			AspectRatio:      defaultAspectRatio,
			SafetySetting:    "block_only_high",
			PersonGeneration: "allow_adult",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding predict request: %w", err)
	}

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		data, retryable, err := c.doPredict(body)
		if err == nil {
			return data, nil
		}

		if !retryable {
			return nil, err
		}

		if attempt == c.policy.MaxAttempts {
			return nil, fmt.Errorf("rate limited after %d attempts: %w", attempt, err)
		}

		wait := c.policy.RetryBaseSleep + time.Duration(attempt-1)*c.policy.RetryStep
		slog.Warn("image service rate limited, backing off", "attempt", attempt, "wait", wait)
		c.sleep(wait)
	}

	return nil, fmt.Errorf("rate limited after %d attempts", c.policy.MaxAttempts)
}

func (c *VertexClient) doPredict(body []byte) (data []byte, retryable bool, err error) {
	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("predict request: status 429")
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("predict request: status %d", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false, fmt.Errorf("predict decode: %w", err)
	}

	if len(parsed.Predictions) == 0 || parsed.Predictions[0].BytesBase64Encoded == "" {
		return nil, false, fmt.Errorf("predict response missing image payload")
	}

	decoded, err := base64.StdEncoding.DecodeString(parsed.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, false, fmt.Errorf("predict payload decode: %w", err)
	}

	return decoded, false, nil
}
