package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Client talks to the upstream platform backend. It performs no
// retries; a transport failure or non-2xx status is returned to the
// caller as-is for the store to stringify into view state.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	timeout := viper.GetDuration("upstream.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: viper.GetString("upstream.base_url"),
		http:    &http.Client{Timeout: timeout},
	}
}

func NewClientWith(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := jsoniter.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("Calling upstream backend...")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach upstream: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode < fiber.StatusOK || resp.StatusCode >= fiber.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := jsoniter.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse upstream response: %v", err)
	}

	return nil
}
