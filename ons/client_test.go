package ons

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, 0, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("missing URL", func(t *testing.T) {
		_, err := NewClient("", 0, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "URL is required")
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		client, err := NewClient("http://localhost:1234/", 0, logger)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:1234", client.baseURL)
	})

	t.Run("default timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost:1234", 0, logger)
		require.NoError(t, err)
		assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	})
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindBadRequest},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusInternalServerError, KindServerError},
		{http.StatusForbidden, KindUnknownHTTP},
		{http.StatusBadGateway, KindUnknownHTTP},
		{http.StatusServiceUnavailable, KindUnknownHTTP},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.GetDataset(context.Background(), "cpih01")
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok, "expected *APIError, got %T", err)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, http.StatusText(tt.status), apiErr.Message)
		})
	}

	t.Run("message from response body", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "dataset not found"})
		}))

		_, err := client.GetDataset(context.Background(), "nope")
		require.Error(t, err)

		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, KindNotFound, apiErr.Kind)
		assert.Equal(t, "dataset not found", apiErr.Message)
	})

	t.Run("network error when no response", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		client, err := NewClient(server.URL, 0, zerolog.Nop())
		require.NoError(t, err)
		server.Close()

		_, err = client.GetDataset(context.Background(), "cpih01")
		require.Error(t, err)

		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, KindNetworkError, apiErr.Kind)
		assert.Equal(t, 0, apiErr.StatusCode)
		assert.NotEmpty(t, apiErr.Message)
	})
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindNetworkError, "NETWORK_ERROR"},
		{KindNotFound, "NOT_FOUND"},
		{KindBadRequest, "BAD_REQUEST"},
		{KindRateLimited, "RATE_LIMITED"},
		{KindServerError, "SERVER_ERROR"},
		{KindUnknownHTTP, "UNKNOWN_HTTP"},
		{ErrorKind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestAPIErrorClassifiers(t *testing.T) {
	assert.True(t, (&APIError{Kind: KindNotFound}).IsNotFound())
	assert.False(t, (&APIError{Kind: KindServerError}).IsNotFound())
	assert.True(t, (&APIError{Kind: KindServerError}).IsServerError())
	assert.True(t, (&APIError{Kind: KindRateLimited}).IsRateLimited())
	assert.False(t, (&APIError{Kind: KindNetworkError}).IsRateLimited())
}

func TestGetDatasets(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		json.NewEncoder(w).Encode(DatasetPage{
			Items:      []Dataset{{ID: "cpih01", Title: "CPIH"}},
			Count:      1,
			Offset:     10,
			Limit:      5,
			TotalCount: 42,
		})
	}))

	page, err := client.GetDatasets(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "cpih01", page.Items[0].ID)
	assert.Equal(t, 42, page.TotalCount)
	assert.True(t, page.HasMore())
}

func TestGetDataset(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/cpih01", r.URL.Path)
		json.NewEncoder(w).Encode(Dataset{
			ID:    "cpih01",
			Title: "CPIH",
			State: "published",
			Contacts: []ContactDetails{
				{Name: "CPI team", Email: "cpi@ons.gov.uk"},
			},
		})
	}))

	dataset, err := client.GetDataset(context.Background(), "cpih01")
	require.NoError(t, err)
	assert.Equal(t, "CPIH", dataset.Title)
	assert.Equal(t, "published", dataset.State)
	require.Len(t, dataset.Contacts, 1)
	assert.Equal(t, "cpi@ons.gov.uk", dataset.Contacts[0].Email)
}

func TestGetDatasetDimensions(t *testing.T) {
	t.Run("dataset without dimensions yields empty slice", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Dataset{ID: "cpih01"})
		}))

		dimensions, err := client.GetDatasetDimensions(context.Background(), "cpih01")
		require.NoError(t, err)
		assert.NotNil(t, dimensions)
		assert.Empty(t, dimensions)
	})

	t.Run("dataset with dimensions", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Dataset{
				ID: "cpih01",
				Dimensions: []Dimension{
					{ID: "time", Label: "Time"},
					{ID: "geography", Label: "Geography"},
				},
			})
		}))

		dimensions, err := client.GetDatasetDimensions(context.Background(), "cpih01")
		require.NoError(t, err)
		require.Len(t, dimensions, 2)
		assert.Equal(t, "time", dimensions[0].ID)
		assert.Equal(t, "geography", dimensions[1].ID)
	})
}

func TestGetDimensionOptions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/cpih01/dimensions/geography/options", r.URL.Path)
		json.NewEncoder(w).Encode(DimensionOptionPage{
			Items: []DimensionOption{
				{DimensionID: "geography", Option: "K02000001", Label: "United Kingdom"},
			},
			Count:      1,
			TotalCount: 1,
		})
	}))

	options, err := client.GetDimensionOptions(context.Background(), "cpih01", "geography")
	require.NoError(t, err)
	require.Len(t, options.Items, 1)
	assert.Equal(t, "K02000001", options.Items[0].Option)
}

func TestGetDownloadURL(t *testing.T) {
	t.Run("csv download present", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/datasets/cpih01/editions/time-series/versions/latest", r.URL.Path)
			json.NewEncoder(w).Encode(Version{
				Version: 12,
				Downloads: &Downloads{
					CSV: &Download{HRef: "https://download.ons.gov.uk/cpih01.csv", Size: "12345"},
				},
			})
		}))

		url, err := client.GetDownloadURL(context.Background(), "cpih01", "time-series")
		require.NoError(t, err)
		assert.Equal(t, "https://download.ons.gov.uk/cpih01.csv", url)
	})

	t.Run("no downloads yields empty string", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Version{Version: 12})
		}))

		url, err := client.GetDownloadURL(context.Background(), "cpih01", "time-series")
		require.NoError(t, err)
		assert.Equal(t, "", url)
	})

	t.Run("downloads without csv yields empty string", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Version{
				Version:   12,
				Downloads: &Downloads{XLS: &Download{HRef: "https://download.ons.gov.uk/cpih01.xlsx"}},
			})
		}))

		url, err := client.GetDownloadURL(context.Background(), "cpih01", "time-series")
		require.NoError(t, err)
		assert.Equal(t, "", url)
	})
}

func TestPing(t *testing.T) {
	t.Run("healthy API", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			json.NewEncoder(w).Encode(DatasetPage{Items: []Dataset{{ID: "cpih01"}}, Count: 1})
		}))

		assert.True(t, client.Ping(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		assert.False(t, client.Ping(context.Background()))
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		assert.False(t, client.Ping(context.Background()))
	})

	t.Run("network down", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		client, err := NewClient(server.URL, 0, zerolog.Nop())
		require.NoError(t, err)
		server.Close()

		assert.False(t, client.Ping(context.Background()))
	})
}

func TestDimensionQuery(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", dimensionQuery(nil))
		assert.Equal(t, "", dimensionQuery(map[string]string{}))
	})

	t.Run("pairs sorted by dimension id", func(t *testing.T) {
		query := dimensionQuery(map[string]string{
			"time":      "Oct-19",
			"aggregate": "cpih1dim1A0",
			"geography": "K02000001",
		})
		assert.Equal(t, "aggregate=cpih1dim1A0&geography=K02000001&time=Oct-19", query)
	})

	t.Run("values passed through verbatim", func(t *testing.T) {
		query := dimensionQuery(map[string]string{"time": "*"})
		assert.Equal(t, "time=*", query)
	})
}

func TestPopularDatasets(t *testing.T) {
	popular := PopularDatasets()
	require.NotEmpty(t, popular)

	for _, dataset := range popular {
		assert.NotEmpty(t, dataset.ID)
		assert.NotEmpty(t, dataset.Title)
	}

	// Mutating the returned slice must not affect subsequent calls.
	popular[0].ID = "mutated"
	assert.NotEqual(t, "mutated", PopularDatasets()[0].ID)
}
