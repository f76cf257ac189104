package ons

import (
	"context"
	"errors"
)

const (
	// VersionLatest is the server-resolved alias for the newest version of
	// an edition. The alias intermittently returns server errors for some
	// datasets even though the version behind it is fine.
	VersionLatest = "latest"

	// FallbackVersion is a pinned version known to serve the same content
	// reliably when the alias misbehaves.
	FallbackVersion = "6"
)

// versionRequest issues one request attempt against a specific version.
type versionRequest func(ctx context.Context, version string) ([]byte, error)

// withVersionFallback runs a request against the caller's version and, when
// the "latest" alias fails with a server error, reissues it once against
// the pinned fallback version with all other parameters unchanged.
//
// Any other failure kind, and any failure on a concrete version, propagates
// untouched. When the fallback attempt fails too, the original failure is
// returned so callers see the root cause rather than a secondary symptom of
// it.
func (c *Client) withVersionFallback(ctx context.Context, version string, do versionRequest) ([]byte, error) {
	body, err := do(ctx, version)
	if err == nil || version != VersionLatest {
		return body, err
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindServerError {
		return nil, err
	}

	c.logger.Warn().
		Str("fallback_version", FallbackVersion).
		Str("error", apiErr.Message).
		Msg("Latest version alias returned a server error, retrying pinned version")

	fallbackBody, fallbackErr := do(ctx, FallbackVersion)
	if fallbackErr != nil {
		c.logger.Warn().
			Err(fallbackErr).
			Msg("Fallback version failed as well, surfacing original error")
		return nil, err
	}

	return fallbackBody, nil
}
