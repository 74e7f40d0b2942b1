package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dostonbek/testplatform/config"
	"github.com/dostonbek/testplatform/internal/model"
)

// RemoteResultRepository talks to the results backend. Any non-2xx status or
// transport error is a plain error; deciding what to do about it (the local
// fallback) is the caller's policy.
type RemoteResultRepository interface {
	Save(ctx context.Context, result *model.QuizResult) error
	FetchAll(ctx context.Context) ([]model.QuizResult, error)
}

type remoteResultRepository struct {
	baseURL string
	client  *http.Client
}

func NewRemoteResultRepository(cfg *config.Config) RemoteResultRepository {
	return &remoteResultRepository{
		baseURL: strings.TrimRight(cfg.ResultsAPI.BaseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *remoteResultRepository) Save(ctx context.Context, result *model.QuizResult) error {
	if r.baseURL == "" {
		return fmt.Errorf("results backend is not configured")
	}
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/results", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach results backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("results backend rejected save with status %d", resp.StatusCode)
	}
	return nil
}

func (r *remoteResultRepository) FetchAll(ctx context.Context) ([]model.QuizResult, error) {
	if r.baseURL == "" {
		return nil, fmt.Errorf("results backend is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/results", nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach results backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("results backend returned status %d", resp.StatusCode)
	}

	var results []model.QuizResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode results payload: %w", err)
	}
	return results, nil
}
