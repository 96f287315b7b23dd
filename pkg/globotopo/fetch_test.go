package globotopo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// fakeTransport serves canned remote content from memory.
type fakeTransport struct {
	dirs    map[string][]string // dir path -> entry names
	files   map[string][]byte   // file path -> content
	errs    map[string]error    // file path -> forced error
	listErr error
	got     []string // retrieved paths, in order
}

func (f *fakeTransport) List(ctx context.Context, dir *url.URL) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.dirs[dir.Path], nil
}

func (f *fakeTransport) Retrieve(ctx context.Context, src *url.URL, dst string) (int64, error) {
	if err := f.errs[src.Path]; err != nil {
		return 0, err
	}
	f.got = append(f.got, src.Path)
	body := f.files[src.Path]
	if err := os.WriteFile(dst, body, 0644); err != nil {
		return 0, err
	}
	return int64(len(body)), nil
}

func newTestFetcher(t *testing.T, cfg Config, fake Transport) *Fetcher {
	t.Helper()
	f, err := NewFetcher(cfg, zerolog.Nop())
	assert.NoError(t, err)
	f.transports["ftp"] = fake
	return f
}

func topexFake() *fakeTransport {
	return &fakeTransport{
		dirs: map[string][]string{
			"/pub/global_topo_1min": {"README.txt", "PERMISSIONS.txt", "reference.txt", "index.html"},
		},
		files: map[string][]byte{
			"/pub/global_topo_1min/README.txt":      []byte("readme"),
			"/pub/global_topo_1min/PERMISSIONS.txt": []byte("perms"),
			"/pub/global_topo_1min/reference.txt":   []byte("ref"),
			"/pub/global_topo_1min/topo_18.1.img":   []byte{0, 1, 0, 2},
		},
		errs: map[string]error{},
	}
}

func topexConfig(t *testing.T) Config {
	return Config{
		BaseURL:   "ftp://topex.ucsd.edu/pub/global_topo_1min",
		Version:   "18.1",
		TargetDir: filepath.Join(t.TempDir(), "data"),
	}
}

func TestFetchAllWritesFiles(t *testing.T) {

	cfg := topexConfig(t)
	fake := topexFake()
	f := newTestFetcher(t, cfg, fake)

	err := f.FetchAll(context.Background())
	assert.NoError(t, err)

	for _, name := range []string{"README.txt", "PERMISSIONS.txt", "reference.txt", "topo_18.1.img"} {
		assert.FileExists(t, filepath.Join(cfg.TargetDir, name))
	}
	// The glob must not pick up non-matching files
	assert.NoFileExists(t, filepath.Join(cfg.TargetDir, "index.html"))

	body, err := os.ReadFile(filepath.Join(cfg.TargetDir, "topo_18.1.img"))
	assert.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 0, 2}, body)
}

func TestFetchAllRerunOverwrites(t *testing.T) {

	cfg := topexConfig(t)
	fake := topexFake()
	f := newTestFetcher(t, cfg, fake)

	assert.NoError(t, f.FetchAll(context.Background()))
	// Second run over a populated directory must not fail
	assert.NoError(t, f.FetchAll(context.Background()))
}

func TestFetchAllBestEffort(t *testing.T) {

	cfg := topexConfig(t)
	fake := topexFake()
	fake.listErr = assert.AnError
	f := newTestFetcher(t, cfg, fake)

	err := f.FetchAll(context.Background())
	assert.Error(t, err)
	// The versioned file is still attempted after the glob failed
	assert.FileExists(t, filepath.Join(cfg.TargetDir, "topo_18.1.img"))
}

func TestFetchAllFailFast(t *testing.T) {

	cfg := topexConfig(t)
	cfg.FailFast = true
	fake := topexFake()
	fake.listErr = assert.AnError
	f := newTestFetcher(t, cfg, fake)

	err := f.FetchAll(context.Background())
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(cfg.TargetDir, "topo_18.1.img"))
}

func TestFetchAllNoGlobMatch(t *testing.T) {

	cfg := topexConfig(t)
	fake := topexFake()
	fake.dirs["/pub/global_topo_1min"] = []string{"index.html"}
	f := newTestFetcher(t, cfg, fake)

	err := f.FetchAll(context.Background())
	assert.Error(t, err)
	assert.FileExists(t, filepath.Join(cfg.TargetDir, "topo_18.1.img"))
}

func TestFetchAllCreatesTargetDespiteFailure(t *testing.T) {

	cfg := topexConfig(t)
	fake := &fakeTransport{listErr: assert.AnError, errs: map[string]error{
		"/pub/global_topo_1min/topo_18.1.img": assert.AnError,
	}}
	f := newTestFetcher(t, cfg, fake)

	err := f.FetchAll(context.Background())
	assert.Error(t, err)
	assert.DirExists(t, cfg.TargetDir)
}

func TestFetchAllUnsupportedScheme(t *testing.T) {

	cfg := topexConfig(t)
	cfg.BaseURL = "gopher://example.com/data"
	f, err := NewFetcher(cfg, zerolog.Nop())
	assert.NoError(t, err)

	err = f.FetchAll(context.Background())
	assert.ErrorContains(t, err, "unsupported scheme")
}

func TestEnsureDirectoryIdempotent(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "a", "b", "data")
	assert.NoError(t, EnsureDirectory(dir))
	assert.DirExists(t, dir)
	assert.NoError(t, EnsureDirectory(dir))
	assert.DirExists(t, dir)
}

func TestHTTPTransportRetrieve(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pub/readme.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("hello topo"))
	}))
	defer srv.Close()

	tr := newHTTPTransport("test", zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "readme.txt")

	src, err := url.Parse(srv.URL + "/pub/readme.txt")
	assert.NoError(t, err)
	n, err := tr.Retrieve(context.Background(), src, dst)
	assert.NoError(t, err)
	assert.EqualValues(t, 10, n)
	body, err := os.ReadFile(dst)
	assert.NoError(t, err)
	assert.Equal(t, "hello topo", string(body))

	// Missing remote file
	missing, _ := url.Parse(srv.URL + "/pub/nope.txt")
	_, err = tr.Retrieve(context.Background(), missing, dst)
	assert.Error(t, err)

	// No listing surface over http
	_, err = tr.List(context.Background(), src)
	assert.Error(t, err)
}
