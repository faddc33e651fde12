package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

const (
	defaultBaseURL       = "https://pypi.org/pypi"
	defaultTimeout       = 15 * time.Second
	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
	userAgent            = "requpdate"
)

var (
	// ErrPackageNotFound is returned when the index has no such project.
	ErrPackageNotFound = errors.New("package not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// nameSeparatorPattern matches the runs collapsed by PEP 503 normalization.
var nameSeparatorPattern = regexp.MustCompile(`[-_.]+`)

// Options tunes a PackageRepository. Zero fields take the defaults.
type Options struct {
	BaseURL       string        // JSON API root, PyPI when empty
	Timeout       time.Duration // per request
	RetryAttempts int
	RetryDelay    time.Duration // doubled after every failed attempt
	CacheTTL      time.Duration
}

// PackageRepository implements repositories.PackageRepository against the
// PyPI JSON API and PEP 503 simple indexes.
type PackageRepository struct {
	client  *http.Client
	cache   repositories.PackageCache
	options Options
}

// NewPackageRepository creates a repository backed by cache. A nil cache
// disables caching.
func NewPackageRepository(cache repositories.PackageCache, options Options) *PackageRepository {
	if options.BaseURL == "" {
		options.BaseURL = defaultBaseURL
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if options.RetryAttempts <= 0 {
		options.RetryAttempts = defaultRetryAttempts
	}
	if options.RetryDelay <= 0 {
		options.RetryDelay = defaultRetryDelay
	}
	options.BaseURL = strings.TrimRight(options.BaseURL, "/")

	return &PackageRepository{
		client:  &http.Client{Timeout: options.Timeout},
		cache:   cache,
		options: options,
	}
}

// NormalizeName returns the PEP 503 form of a project name.
func NormalizeName(name string) string {
	return nameSeparatorPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// FetchPackage returns every published version of name. A non-empty
// indexServer is queried through its simple API instead of PyPI.
func (r *PackageRepository) FetchPackage(
	ctx context.Context,
	name, indexServer string,
) (*entities.Package, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty package name", ErrPackageNotFound)
	}

	key := r.cacheKey(normalized, indexServer)
	if r.cache != nil {
		if pkg, ok := r.cache.Get(ctx, key); ok {
			logger.Debugf("[pypi] Cache hit for %s", key)
			return pkg, nil
		}
	}

	var pkg *entities.Package
	err := retry(ctx, r.options.RetryAttempts, r.options.RetryDelay, func() error {
		var fetchErr error
		if indexServer == "" {
			pkg, fetchErr = r.fetchJSON(ctx, name, normalized)
		} else {
			pkg, fetchErr = r.fetchSimple(ctx, name, normalized, indexServer)
		}
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if setErr := r.cache.Set(ctx, key, pkg, r.options.CacheTTL); setErr != nil {
			logger.Warnf("[pypi] Failed to cache %s in %s: %v", key, r.cache.Name(), setErr)
		}
	}
	return pkg, nil
}

func (r *PackageRepository) cacheKey(normalized, indexServer string) string {
	index := r.options.BaseURL
	if indexServer != "" {
		index = strings.TrimRight(indexServer, "/")
	}
	return index + "|" + normalized
}

type jsonResponse struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
	Releases map[string]json.RawMessage `json:"releases"`
}

func (r *PackageRepository) fetchJSON(
	ctx context.Context,
	name, normalized string,
) (*entities.Package, error) {
	url := fmt.Sprintf("%s/%s/json", r.options.BaseURL, normalized)
	body, err := r.get(ctx, url, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer body.Close()

	var data jsonResponse
	if decodeErr := json.NewDecoder(body).Decode(&data); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode %s metadata: %w", name, decodeErr)
	}

	versions := make([]string, 0, len(data.Releases))
	for version := range data.Releases {
		versions = append(versions, version)
	}
	if data.Info.Name != "" {
		name = data.Info.Name
	}
	logger.Debugf("[pypi] %s: %d releases", name, len(versions))
	return entities.NewPackage(name, versions), nil
}

func (r *PackageRepository) fetchSimple(
	ctx context.Context,
	name, normalized, indexServer string,
) (*entities.Package, error) {
	url := fmt.Sprintf("%s/%s/", strings.TrimRight(indexServer, "/"), normalized)
	body, err := r.get(ctx, url, "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from %s: %w", name, indexServer, err)
	}
	defer body.Close()

	versions, parseErr := parseSimplePage(body, normalized)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse index page of %s: %w", name, parseErr)
	}
	logger.Debugf("[pypi] %s: %d releases on %s", name, len(versions), indexServer)
	return entities.NewPackage(name, versions), nil
}

func (r *PackageRepository) get(ctx context.Context, url, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}

	if statusErr := checkStatus(resp.StatusCode); statusErr != nil {
		resp.Body.Close()
		return nil, statusErr
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrPackageNotFound
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
