package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/titanous/json5"
)

// FileName is the catalog cache file inside the git-extra
// home directory.
const FileName = "catalog.json5"

// maxSize bounds a downloaded catalog.
const maxSize = 1 << 20

var (
	// ErrInvalidCatalog is returned for catalogs that parse
	// but have missing or duplicate keys or URLs.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrUnknownKey is returned by Lookup.
	ErrUnknownKey = errors.New("unknown template key")
)

// Entry names a template repository.
type Entry struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type file struct {
	Templates []Entry `json:"templates"`
}

// Store loads the template catalog, downloading it from
// URL into Dir the first time.
type Store struct {
	Dir    string
	URL    string
	Client *http.Client

	entries map[string]Entry
}

// Load reads the cached catalog, fetching it first when
// absent. A cached copy that no longer matches the digest
// recorded at download time was edited by hand: it is kept
// and its digest dropped, unless it no longer parses, in
// which case it is fetched again. A downloaded catalog is
// cached only when valid.
func (s *Store) Load(ctx context.Context) error {
	const errCtx = "loading catalog"

	path := filepath.Join(s.Dir, FileName)

	data, err := os.ReadFile(path) //nolint:gosec // path under git-extra home
	if errors.Is(err, os.ErrNotExist) {
		if err := s.download(ctx, path); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	matches, err := verifyDigest(path, data)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	entries, parseErr := parse(data)

	switch {
	case !matches && parseErr != nil:
		slog.Warn("cached catalog is corrupt, fetching again", "path", path)

		if err := s.download(ctx, path); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	case parseErr != nil:
		return fmt.Errorf("%s: %s: %w", errCtx, path, parseErr)
	case !matches:
		slog.Info("cached catalog was edited, keeping it", "path", path)

		if err := dropDigest(path); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	s.entries = entries

	return nil
}

// Lookup returns the entry named key.
func (s *Store) Lookup(key string) (Entry, error) {
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	return e, nil
}

// Entries returns all entries sorted by key.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}

	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})

	return out
}

func (s *Store) download(ctx context.Context, path string) error {
	data, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	entries, err := parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", s.URL, err)
	}

	if err := s.cache(path, data); err != nil {
		return err
	}

	s.entries = entries

	return nil
}

func (s *Store) fetch(ctx context.Context) ([]byte, error) {
	const errCtx = "fetching catalog"

	client := s.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, s.URL, http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug("fetching catalog", "url", s.URL)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // best-effort close
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"%s: %s: unexpected status %s",
			errCtx, s.URL, resp.Status,
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return data, nil
}

func (s *Store) cache(path string, data []byte) error {
	const errCtx = "caching catalog"

	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := saveDigest(path, data); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func parse(data []byte) (map[string]Entry, error) {
	var f file

	if err := json5.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(f.Templates))

	for i, e := range f.Templates {
		if e.Key == "" || e.URL == "" {
			return nil, fmt.Errorf(
				"%w: template %d needs a key and a url",
				ErrInvalidCatalog, i,
			)
		}

		if _, dup := entries[e.Key]; dup {
			return nil, fmt.Errorf(
				"%w: duplicate key %s", ErrInvalidCatalog, e.Key,
			)
		}

		entries[e.Key] = e
	}

	return entries, nil
}
