package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type subscriptionView struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ruleView struct {
	Operation string   `json:"operation"`
	Target    string   `json:"target"`
	From      []string `json:"from"`
}

type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) Create(ctx context.Context, id string) (*subscriptionView, error) {
	var out subscriptionView
	err := c.do(ctx, http.MethodPost, c.baseURL+"/subscriptions", map[string]string{"id": id}, &out)
	return &out, err
}

func (c *apiClient) Get(ctx context.Context, id string) (*subscriptionView, error) {
	var out subscriptionView
	err := c.do(ctx, http.MethodGet, c.baseURL+"/subscriptions/"+url.PathEscape(id), nil, &out)
	return &out, err
}

func (c *apiClient) Transition(ctx context.Context, id, action string) (*subscriptionView, error) {
	var out subscriptionView
	err := c.do(ctx, http.MethodPost, c.baseURL+"/subscriptions/"+url.PathEscape(id)+"/"+action, nil, &out)
	return &out, err
}

func (c *apiClient) Transitions(ctx context.Context) ([]ruleView, error) {
	var out []ruleView
	err := c.do(ctx, http.MethodGet, c.baseURL+"/transitions", nil, &out)
	return out, err
}

func (c *apiClient) do(ctx context.Context, method, target string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("unexpected response (%d): %w", resp.StatusCode, err)
	}
	if !envelope.Success {
		e := &apiError{Status: resp.StatusCode, Code: "UNKNOWN"}
		if envelope.Error != nil {
			e.Code, e.Message = envelope.Error.Code, envelope.Error.Message
		}
		return e
	}
	return json.Unmarshal(envelope.Data, out)
}
