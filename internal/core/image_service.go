package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	generateTimeout = 60 * time.Second
	downloadTimeout = 30 * time.Second

	// maxImageBytes bounds the generated image download.
	maxImageBytes = 20 << 20
)

// ErrNoImage is returned when the API answers without an image URL.
var ErrNoImage = errors.New("image API returned no image url")

type imageGenerationRequest struct {
	Prompt  string `json:"prompt"`
	Model   string `json:"model"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// ImageService generates pictures through an OpenAI-style images API.
type ImageService struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewImageService(apiURL, apiKey, model string) *ImageService {
	return &ImageService{
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

// Generate returns the bytes of a 1024x1024 image for prompt.
func (s *ImageService) Generate(ctx context.Context, prompt string) ([]byte, error) {
	imageURL, err := s.requestImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return s.download(ctx, imageURL)
}

func (s *ImageService) requestImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	body, err := json.Marshal(imageGenerationRequest{
		Prompt:  prompt,
		Model:   s.model,
		Size:    "1024x1024",
		Quality: "hd",
		N:       1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API error: status %d", resp.StatusCode)
	}

	var decoded imageGenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode image API response: %w", err)
	}
	if len(decoded.Data) == 0 || decoded.Data[0].URL == "" {
		return "", ErrNoImage
	}
	return decoded.Data[0].URL, nil
}

func (s *ImageService) download(ctx context.Context, imageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}
