// Package plantnet identifies plants with the Pl@ntNet image recognition API.
package plantnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"plantpal-be/pkg/remote"
	"plantpal-be/pkg/vision"
)

const (
	ProviderName   = "plantnet"
	DefaultBaseURL = "https://my-api.plantnet.org"
	DefaultProject = "weurope"

	modifiers = `["crops", "flower", "leaf", "auto"]`
)

type Provider struct {
	BaseURL string
	Project string
	APIKey  string
	Client  *http.Client
}

var _ vision.Identifier = &Provider{}

func NewProvider(baseURL, project, apiKey string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if project == "" {
		project = DefaultProject
	}
	return &Provider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Project: project,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

type identifyResponse struct {
	Results []struct {
		Score   float64 `json:"score"`
		Species struct {
			ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
			CommonNames                 []string `json:"commonNames"`
		} `json:"species"`
	} `json:"results"`
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Identify(ctx context.Context, image vision.Image) (*vision.Candidate, error) {
	body, contentType, err := p.buildForm(image)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/identify/%s?api-key=%s", p.BaseURL, url.PathEscape(p.Project), url.QueryEscape(p.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	respBody, err := remote.Do(p.Client, ProviderName, req)
	if err != nil {
		return nil, err
	}

	var resp identifyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, remote.Malformed(ProviderName, fmt.Errorf("unmarshal response: %w", err))
	}
	if len(resp.Results) == 0 {
		return nil, remote.NoCandidates(ProviderName)
	}

	top := resp.Results[0]
	scientific := top.Species.ScientificNameWithoutAuthor
	if scientific == "" {
		return nil, remote.Malformed(ProviderName, fmt.Errorf("top result has no scientific name"))
	}
	common := scientific
	if len(top.Species.CommonNames) > 0 && top.Species.CommonNames[0] != "" {
		common = top.Species.CommonNames[0]
	}

	return &vision.Candidate{
		ScientificName:    scientific,
		CommonName:        common,
		ConfidencePercent: vision.NormalizeConfidence(top.Score),
	}, nil
}

func (p *Provider) buildForm(image vision.Image) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filename := image.Filename
	if filename == "" {
		filename = "plant.jpg"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, strings.ReplaceAll(filename, `"`, "")))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("modifiers", modifiers); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("project", p.Project); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
