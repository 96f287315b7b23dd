package globotopo

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Entry is one item of the fetch manifest. Name is a filename relative to
// the base URL; it may be a glob pattern or contain %s for the version.
type Entry struct {
	Name string
	Glob bool
}

// DefaultManifest lists the upstream files: the readme, reference and
// permissions text files, and the gridded topography image.
var DefaultManifest = []Entry{
	{Name: "*.txt", Glob: true},
	{Name: "topo_%s.img"},
}

// Resource is a manifest entry resolved to a concrete URL. Glob expansion
// is left to the transport, which lists the remote directory.
type Resource struct {
	URL  *url.URL
	Glob bool
}

// Resolve substitutes the version into the default manifest and joins the
// entries with the base URL.
func (c Config) Resolve() ([]Resource, error) {
	return resolveManifest(c, DefaultManifest)
}

func resolveManifest(cfg Config, entries []Entry) ([]Resource, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", cfg.BaseURL, err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", cfg.BaseURL)
	}
	resources := make([]Resource, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if strings.Contains(name, "%s") {
			name = fmt.Sprintf(name, cfg.Version)
		}
		u := *base
		u.Path = path.Join(u.Path, name)
		resources = append(resources, Resource{URL: &u, Glob: e.Glob})
	}
	return resources, nil
}
