package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/matzehuels/citation/pkg/buildinfo"
	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/observability"
)

// MaxAssetSize bounds fonts and logos read from disk or the network.
const MaxAssetSize = 10 << 20

// httpClient is shared by all downloads.
var (
	httpClient     *retryablehttp.Client
	httpClientOnce sync.Once
)

func getHTTPClient() *retryablehttp.Client {
	httpClientOnce.Do(func() {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = 2
		httpClient.HTTPClient.Timeout = 15 * time.Second
		httpClient.Logger = nil
	})
	return httpClient
}

// IsURL reports whether location names an http(s) resource.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch downloads an asset. A 404 is ASSET_NOT_FOUND; bodies larger than
// MaxAssetSize are INVALID_ASSET.
func Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", rawURL)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, u.Host, u.Path)
	start := time.Now()

	resp, err := getHTTPClient().Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, u.Host, u.Path, err)
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeAssetNotFound, "%s not found", rawURL)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	return readLimited(resp.Body, rawURL)
}

// Read returns the bytes of a local path or http(s) URL.
func Read(ctx context.Context, location string) ([]byte, error) {
	if IsURL(location) {
		return Fetch(ctx, location)
	}
	f, err := os.Open(location)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeAssetNotFound, err, "%s does not exist", location)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	defer f.Close()
	return readLimited(f, location)
}

// Require checks that every non-empty local path exists. URLs are checked
// when they are fetched.
func Require(locations ...string) error {
	for _, loc := range locations {
		if loc == "" || IsURL(loc) {
			continue
		}
		info, err := os.Stat(loc)
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeAssetNotFound, err, "%s does not exist", loc)
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", loc, err)
		}
		if info.IsDir() {
			return errors.New(errors.ErrCodeInvalidAsset, "%s is a directory", loc)
		}
	}
	return nil
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxAssetSize {
		return nil, errors.New(errors.ErrCodeInvalidAsset, "%s is larger than %d bytes", name, MaxAssetSize)
	}
	return data, nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
