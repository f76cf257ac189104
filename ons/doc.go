// Package ons provides a client for the ONS (Office for National
// Statistics) dataset API.
//
// The API exposes statistical datasets, their editions and versions, and
// the observations inside them. This package implements a typed client for
// the read-only surface: listing and fetching datasets, resolving versions,
// querying observations by dimension, and locating CSV downloads.
//
// # Error handling
//
// Every failed call returns an *APIError carrying a kind from a closed
// taxonomy (not found, bad request, rate limited, server error, unknown
// HTTP, network error). Callers never see a raw transport error:
//
//	dataset, err := client.GetDataset(ctx, "cpih01")
//	if err != nil {
//		var apiErr *ons.APIError
//		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//			// handle missing dataset
//		}
//	}
//
// # Version fallback
//
// The API's "latest" version alias intermittently returns server errors for
// some datasets while the pinned version behind it serves fine. When a
// request for "latest" fails with a server error, the client retries once
// against the pinned fallback version; if that retry also fails, the
// original failure is returned. No other failure kind and no concrete
// version is ever retried.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := ons.NewClient(ons.DefaultBaseURL, 0, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	obs, err := client.GetObservations(ctx, "cpih01", "time-series", ons.VersionLatest,
//		map[string]string{
//			"time":      "Oct-19",
//			"geography": "K02000001",
//			"aggregate": "cpih1dim1A0",
//		})
package ons
