package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"plantpal-be/internal/dto"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(serverURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func call[T any](ctx context.Context, c *apiClient, method, path, contentType string, body io.Reader) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return zero, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, err
	}

	var out envelope[T]
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if !out.Success {
		return zero, fmt.Errorf("server error (%d): %s", out.Code, out.Message)
	}
	return out.Data, nil
}

func (c *apiClient) createSession(ctx context.Context) (dto.SessionResponse, error) {
	return call[dto.SessionResponse](ctx, c, http.MethodPost, "/session/v1", "", nil)
}

func (c *apiClient) getSession(ctx context.Context, id string) (dto.SessionResponse, error) {
	return call[dto.SessionResponse](ctx, c, http.MethodGet, "/session/v1/"+id, "", nil)
}

func (c *apiClient) resetSession(ctx context.Context, id string) (dto.SessionResponse, error) {
	return call[dto.SessionResponse](ctx, c, http.MethodPost, "/session/v1/"+id+"/reset", "", nil)
}

func (c *apiClient) deleteSession(ctx context.Context, id string) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/session/v1/"+id, "", nil)
	return err
}

func (c *apiClient) identify(ctx context.Context, id, imagePath string) (dto.IdentifyResponse, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return dto.IdentifyResponse{}, err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return dto.IdentifyResponse{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return dto.IdentifyResponse{}, err
	}
	if err := writer.Close(); err != nil {
		return dto.IdentifyResponse{}, err
	}

	return call[dto.IdentifyResponse](ctx, c, http.MethodPost, "/session/v1/"+id+"/identify", writer.FormDataContentType(), &buf)
}

func (c *apiClient) chat(ctx context.Context, id, message string) (dto.SendChatResponse, error) {
	payload, err := json.Marshal(dto.SendChatRequest{Message: message})
	if err != nil {
		return dto.SendChatResponse{}, err
	}
	return call[dto.SendChatResponse](ctx, c, http.MethodPost, "/session/v1/"+id+"/chat", "application/json", bytes.NewReader(payload))
}
