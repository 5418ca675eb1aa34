package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/dexsome/internal/models"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	DefaultTimeout = 30 * time.Second
	userAgent      = "dexsome/1.0"
	maxErrorBody   = 512 // bytes of an error response kept in the error message
)

// CatalogClient is a client for the remote creature catalog
type CatalogClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger // optional
}

// NewCatalogClient creates a catalog client. An empty baseURL uses DefaultBaseURL,
// a zero timeout uses DefaultTimeout and logger may be nil.
func NewCatalogClient(baseURL string, timeout time.Duration, logger *log.Logger) *CatalogClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CatalogClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// BaseURL returns the API root the client talks to
func (c *CatalogClient) BaseURL() string {
	return c.baseURL
}

// FetchIndex fetches one page of the catalog index
func (c *CatalogClient) FetchIndex(ctx context.Context, limit, offset int) (*models.IndexPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	endpoint := fmt.Sprintf("%s/pokemon?%s", c.baseURL, q.Encode())

	var page models.IndexPage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	for i, s := range page.Results {
		if s.Name == "" || s.ID() == 0 {
			return nil, fmt.Errorf("%w: index entry %d has no resolvable reference", ErrMalformedRecord, offset+i)
		}
	}
	return &page, nil
}

// FetchRecord fetches a single record by name or numeric id.
// The record is validated; a missing field yields an error wrapping ErrMalformedRecord.
func (c *CatalogClient) FetchRecord(ctx context.Context, nameOrID string) (*models.FullRecord, error) {
	nameOrID = strings.ToLower(strings.TrimSpace(nameOrID))
	if nameOrID == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrMalformedRecord)
	}
	endpoint := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(nameOrID))

	var rec models.FullRecord
	if err := c.getJSON(ctx, endpoint, &rec); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		if c.logger != nil {
			c.logger.Warn("Malformed record", "identifier", nameOrID, "error", err)
		}
		return nil, err
	}
	return &rec, nil
}

// FetchSpecies fetches the species entry used for descriptions and genus
func (c *CatalogClient) FetchSpecies(ctx context.Context, id int) (*models.Species, error) {
	endpoint := fmt.Sprintf("%s/pokemon-species/%d", c.baseURL, id)

	var species models.Species
	if err := c.getJSON(ctx, endpoint, &species); err != nil {
		return nil, err
	}
	return &species, nil
}

// getJSON performs a GET request and decodes a JSON body into out.
// Transport errors and non-200 responses wrap ErrNetworkFailure; undecodable
// bodies wrap ErrMalformedRecord.
func (c *CatalogClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create request", "url", endpoint, "error", err)
		}
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug("GET", "endpoint", endpoint)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", endpoint, "error", err)
		}
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "url", endpoint, "response", string(body))
		}
		return fmt.Errorf("%w: %s returned status %d: %s", ErrNetworkFailure, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response from %s: %v", ErrMalformedRecord, endpoint, err)
	}

	if c.logger != nil {
		c.logger.Debug("OK", "endpoint", endpoint, "elapsed", time.Since(start))
	}
	return nil
}
