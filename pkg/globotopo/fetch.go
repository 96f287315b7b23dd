package globotopo

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Fetcher downloads the manifest files into the target directory. It works
// strictly sequentially, one entry after the other, and does not retry.
type Fetcher struct {
	cfg        Config
	logger     zerolog.Logger
	transports map[string]Transport
}

func NewFetcher(cfg Config, logger zerolog.Logger) (*Fetcher, error) {

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	// Validate the base URL early, before touching the filesystem
	if _, err := resolveManifest(cfg, DefaultManifest); err != nil {
		return nil, err
	}
	f := &Fetcher{
		cfg:    cfg,
		logger: logger.With().Str("target", cfg.TargetDir).Logger(),
	}
	httpt := newHTTPTransport(cfg.UserAgent, f.logger)
	f.transports = map[string]Transport{
		"ftp":   newFTPTransport(f.logger),
		"http":  httpt,
		"https": httpt,
	}
	return f, nil
}

// EnsureDirectory creates path and any missing parents. It is a no-op if
// the directory already exists.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0777); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// FetchAll creates the target directory and fetches every manifest entry in
// order. By default all entries are attempted and the first error is
// returned at the end; with FailFast the run stops at the first failure.
func (f *Fetcher) FetchAll(ctx context.Context) error {

	if err := EnsureDirectory(f.cfg.TargetDir); err != nil {
		return err
	}
	resources, err := f.cfg.Resolve()
	if err != nil {
		return err
	}

	var firstErr error
	for _, res := range resources {
		if err := f.fetch(ctx, res); err != nil {
			f.logger.Error().Err(err).Str("url", res.URL.String()).Msg("Fetch")
			if f.cfg.FailFast {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// fetch retrieves one resolved resource. A glob resource is expanded by
// listing the remote directory and filtering on the pattern.
func (f *Fetcher) fetch(ctx context.Context, res Resource) error {

	tr, ok := f.transports[res.URL.Scheme]
	if !ok {
		return fmt.Errorf("unsupported scheme %q in %s", res.URL.Scheme, res.URL.String())
	}
	if !res.Glob {
		return f.fetchFile(ctx, tr, res.URL)
	}

	dir := *res.URL
	dir.Path = path.Dir(res.URL.Path)
	pattern := path.Base(res.URL.Path)

	names, err := tr.List(ctx, &dir)
	if err != nil {
		return err
	}
	matched := 0
	var firstErr error
	for _, name := range names {
		if ok, _ := path.Match(pattern, name); !ok {
			continue
		}
		matched++
		src := dir
		src.Path = path.Join(dir.Path, name)
		if err := f.fetchFile(ctx, tr, &src); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if matched == 0 {
		return fmt.Errorf("no files matching %s in %s", pattern, dir.String())
	}
	return firstErr
}

func (f *Fetcher) fetchFile(ctx context.Context, tr Transport, src *url.URL) error {

	dst := filepath.Join(f.cfg.TargetDir, path.Base(src.Path))
	n, err := tr.Retrieve(ctx, src, dst)
	if err != nil {
		FetchErrors.Inc()
		return err
	}
	Fetched.Inc()
	FetchedBytes.Add(float64(n))
	f.logger.Info().Str("url", src.String()).Int64("bytes", n).Msg("Got")
	return nil
}
