package ons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public ONS dataset API.
	DefaultBaseURL = "https://api.beta.ons.gov.uk/v1"

	defaultTimeout = 10 * time.Second
	userAgent      = "onsq (+https://github.com/onsq/onsq)"

	// searchPageSize bounds the page fetched for client-side search; the
	// API has no search endpoint.
	searchPageSize = 100
)

// Client represents an ONS dataset API client. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new ONS dataset API client. A timeout of zero selects
// the default of 10 seconds.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ons API URL is required")
	}

	// Ensure baseURL doesn't have trailing slash
	baseURL = strings.TrimRight(baseURL, "/")

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// doRequest performs a GET against the API and normalizes every failure
// into an *APIError before it reaches the caller. query is appended to the
// URL verbatim; callers encode it (or deliberately don't, for dimension
// selections).
func (c *Client) doRequest(ctx context.Context, endpoint, query string) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if query != "" {
		requestURL += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, normalizeTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalizeTransport(err)
	}

	if resp.StatusCode >= 400 {
		apiErr := normalizeStatus(resp.StatusCode, body)
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("kind", apiErr.Kind.String()).
			Str("url", requestURL).
			Msg("ONS API request failed")
		return nil, apiErr
	}

	return body, nil
}

// GetDatasets returns one page of the dataset collection.
func (c *Client) GetDatasets(ctx context.Context, limit, offset int) (*DatasetPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	body, err := c.doRequest(ctx, "/datasets", params.Encode())
	if err != nil {
		return nil, err
	}

	var page DatasetPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse dataset page: %w", err)
	}

	return &page, nil
}

// GetDataset returns the metadata for a single dataset.
func (c *Client) GetDataset(ctx context.Context, datasetID string) (*Dataset, error) {
	body, err := c.doRequest(ctx, "/datasets/"+datasetID, "")
	if err != nil {
		return nil, err
	}

	var dataset Dataset
	if err := json.Unmarshal(body, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	return &dataset, nil
}

// GetDatasetDimensions returns a dataset's dimensions. Datasets without a
// dimension list yield an empty slice, not an error.
func (c *Client) GetDatasetDimensions(ctx context.Context, datasetID string) ([]Dimension, error) {
	dataset, err := c.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return dataset.DimensionList(), nil
}

// GetDimensionOptions returns the option set for one dimension of a dataset.
func (c *Client) GetDimensionOptions(ctx context.Context, datasetID, dimensionID string) (*DimensionOptionPage, error) {
	endpoint := fmt.Sprintf("/datasets/%s/dimensions/%s/options", datasetID, dimensionID)

	body, err := c.doRequest(ctx, endpoint, "")
	if err != nil {
		return nil, err
	}

	var options DimensionOptionPage
	if err := json.Unmarshal(body, &options); err != nil {
		return nil, fmt.Errorf("failed to parse dimension options: %w", err)
	}

	return &options, nil
}

// GetVersion returns one version of a dataset edition. Requests for the
// "latest" alias are subject to the pinned-version fallback.
func (c *Client) GetVersion(ctx context.Context, datasetID, edition, version string) (*Version, error) {
	body, err := c.withVersionFallback(ctx, version, func(ctx context.Context, v string) ([]byte, error) {
		endpoint := fmt.Sprintf("/datasets/%s/editions/%s/versions/%s", datasetID, edition, v)
		return c.doRequest(ctx, endpoint, "")
	})
	if err != nil {
		return nil, err
	}

	var ver Version
	if err := json.Unmarshal(body, &ver); err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}

	return &ver, nil
}

// GetLatestVersion resolves the newest version of a dataset edition.
func (c *Client) GetLatestVersion(ctx context.Context, datasetID, edition string) (*Version, error) {
	return c.GetVersion(ctx, datasetID, edition, VersionLatest)
}

// GetObservations fetches the observations addressed by the given dimension
// selections. Requests for the "latest" alias are subject to the
// pinned-version fallback, with the dimension selections carried over
// unchanged.
func (c *Client) GetObservations(ctx context.Context, datasetID, edition, version string, dimensions map[string]string) (*Observations, error) {
	query := dimensionQuery(dimensions)

	body, err := c.withVersionFallback(ctx, version, func(ctx context.Context, v string) ([]byte, error) {
		endpoint := fmt.Sprintf("/datasets/%s/editions/%s/versions/%s/observations", datasetID, edition, v)
		return c.doRequest(ctx, endpoint, query)
	})
	if err != nil {
		return nil, err
	}

	var observations Observations
	if err := json.Unmarshal(body, &observations); err != nil {
		return nil, fmt.Errorf("failed to parse observations: %w", err)
	}

	return &observations, nil
}

// GetDownloadURL returns the CSV download link for the latest version of a
// dataset edition, or the empty string when the version has no CSV download.
func (c *Client) GetDownloadURL(ctx context.Context, datasetID, edition string) (string, error) {
	version, err := c.GetLatestVersion(ctx, datasetID, edition)
	if err != nil {
		return "", err
	}
	return version.CSVDownloadURL(), nil
}

// SearchDatasets filters one page of datasets client-side with a
// case-insensitive substring match against title, description and id. At
// most limit datasets are returned.
func (c *Client) SearchDatasets(ctx context.Context, query string, limit int) ([]Dataset, error) {
	if limit <= 0 || limit > searchPageSize {
		limit = searchPageSize
	}

	page, err := c.GetDatasets(ctx, searchPageSize, 0)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]Dataset, 0, limit)
	for _, dataset := range page.Items {
		if len(matches) >= limit {
			break
		}
		if datasetMatches(dataset, needle) {
			matches = append(matches, dataset)
		}
	}

	c.logger.Debug().
		Str("query", query).
		Int("matches", len(matches)).
		Int("scanned", len(page.Items)).
		Msg("Searched datasets")

	return matches, nil
}

// Ping reports whether the API is reachable and serving. Every failure,
// whatever its kind, collapses to false.
func (c *Client) Ping(ctx context.Context) bool {
	if _, err := c.GetDatasets(ctx, 1, 0); err != nil {
		c.logger.Debug().Err(err).Msg("Health check failed")
		return false
	}
	return true
}

// datasetMatches reports a substring match on title, description or id.
// needle must already be lowercased.
func datasetMatches(dataset Dataset, needle string) bool {
	return strings.Contains(strings.ToLower(dataset.Title), needle) ||
		strings.Contains(strings.ToLower(dataset.Description), needle) ||
		strings.Contains(strings.ToLower(dataset.ID), needle)
}

// dimensionQuery joins dimension selections as id=value pairs. Values are
// passed through verbatim, not percent-encoded; ONS option codes are
// URL-safe. Pairs are sorted by dimension id so request URLs are
// deterministic.
func dimensionQuery(dimensions map[string]string) string {
	if len(dimensions) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(dimensions))
	for id, value := range dimensions {
		pairs = append(pairs, id+"="+value)
	}
	sort.Strings(pairs)

	return strings.Join(pairs, "&")
}
