package activityapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// maxResponseBytes caps how much of an activity response is read
const maxResponseBytes = 16 << 20

// Client reads vault activity from the vault data API
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxBody    int64
	log        *slog.Logger
}

// NewClient creates a new activity API client
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.API.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxBody: maxResponseBytes,
		log:     log.With("component", "activityapi"),
	}
}

// FetchActivity returns every activity record for a vault on a chain
func (c *Client) FetchActivity(ctx context.Context, chainID uint64, vault common.Address) ([]models.ActivityRecord, error) {
	endpoint := fmt.Sprintf("%s/vaults/%s/activity?%s",
		c.baseURL,
		url.PathEscape(vault.Hex()),
		url.Values{"chainId": {strconv.FormatUint(chainID, 10)}}.Encode(),
	)
	c.log.Debug("GET", "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("activity response exceeds %d bytes", c.maxBody)
	}

	c.log.Debug("response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("vault %s on chain %d: %w", vault.Hex(), chainID, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var records []models.ActivityRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return records, nil
}

var _ usecase.ActivitySource = (*Client)(nil)
