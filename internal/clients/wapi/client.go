package wapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/talkbase/talkbase-backend/internal/platform/envutil"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

// ContactRecord is a raw contact as returned by a connected inbox provider.
type ContactRecord struct {
	Phone     string `json:"phone"`
	JID       string `json:"jid"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Client fetches the address book of a connected WhatsApp inbox from the
// provider API given the inbox's connection token.
type Client interface {
	FetchContacts(ctx context.Context, connectionToken string) ([]ContactRecord, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	timeoutSec := envutil.GetInt("WAPI_TIMEOUT_SECONDS", 30, log)
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("WAPI_BASE_URL")),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing WAPI_BASE_URL")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:        log.With("client", "WapiClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv(log))
}

func (c *client) FetchContacts(ctx context.Context, connectionToken string) ([]ContactRecord, error) {
	if strings.TrimSpace(connectionToken) == "" {
		return nil, fmt.Errorf("missing connection token")
	}

	url := c.cfg.BaseURL + "/v1/contacts"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+connectionToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("Provider returned non-2xx for contact fetch", "status", resp.StatusCode)
		return nil, fmt.Errorf("provider contact fetch failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Contacts []ContactRecord `json:"contacts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	c.log.Debug("Fetched provider contacts", "count", len(payload.Contacts))
	return payload.Contacts, nil
}
