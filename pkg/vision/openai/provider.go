// Package openai identifies plants by sending the photo to an OpenAI vision model.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"plantpal-be/pkg/remote"
	"plantpal-be/pkg/vision"
)

const (
	ProviderName   = "openai-vision"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"

	maxTokens      = 150
	identifyPrompt = `Identify this plant. Return ONLY a JSON object with 'name' (scientific name), 'commonName', and 'confidence' (0-1 scale). Example: {"name":"Monstera deliciosa","commonName":"Swiss Cheese Plant","confidence":0.95}`
)

type VisionProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

var _ vision.Identifier = &VisionProvider{}

func NewVisionProvider(baseURL, apiKey, modelName string, timeout time.Duration) *VisionProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &VisionProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		ModelName: modelName,
		Client:    &http.Client{Timeout: timeout},
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type identification struct {
	Name       string   `json:"name"`
	CommonName string   `json:"commonName"`
	Confidence *float64 `json:"confidence"`
}

func (p *VisionProvider) Name() string {
	return ProviderName
}

func (p *VisionProvider) Identify(ctx context.Context, image vision.Image) (*vision.Candidate, error) {
	mime := image.ContentType
	if mime == "" {
		mime = "image/jpeg"
	}

	payload := chatRequest{
		Model:     p.ModelName,
		MaxTokens: maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: identifyPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image.Data))}},
			},
		}},
	}

	body, err := remote.PostJSON(ctx, p.Client, ProviderName, p.BaseURL+"/chat/completions", p.APIKey, payload)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, remote.Malformed(ProviderName, fmt.Errorf("unmarshal response: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, remote.NoCandidates(ProviderName)
	}

	raw, ok := remote.ExtractJSONObject(resp.Choices[0].Message.Content)
	if !ok {
		return nil, remote.Malformed(ProviderName, fmt.Errorf("reply contains no JSON object"))
	}

	var result identification
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, remote.Malformed(ProviderName, fmt.Errorf("unmarshal identification: %w", err))
	}
	if result.Name == "" || result.Confidence == nil {
		return nil, remote.Malformed(ProviderName, fmt.Errorf("identification is missing name or confidence"))
	}

	common := result.CommonName
	if common == "" {
		common = result.Name
	}

	return &vision.Candidate{
		ScientificName:    result.Name,
		CommonName:        common,
		ConfidencePercent: vision.NormalizeConfidence(*result.Confidence),
	}, nil
}
