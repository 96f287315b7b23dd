package globotopo

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"

	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"
)

const anonymousUser = "anonymous"

type ftpTransport struct {
	logger zerolog.Logger
}

func newFTPTransport(logger zerolog.Logger) *ftpTransport {
	return &ftpTransport{logger: logger}
}

// connect dials the host of u and logs in, anonymously unless the URL
// carries credentials. The caller quits the connection.
func (t *ftpTransport) connect(ctx context.Context, u *url.URL) (*ftp.ServerConn, error) {

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "21")
	}
	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx))
	if err != nil {
		t.logger.Error().Err(err).Str("addr", addr).Msg("Dial")
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	user, pass := anonymousUser, anonymousUser
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		t.logger.Error().Err(err).Str("addr", addr).Msg("Login")
		return nil, fmt.Errorf("login %s: %w", addr, err)
	}
	return conn, nil
}

func (t *ftpTransport) List(ctx context.Context, dir *url.URL) ([]string, error) {

	conn, err := t.connect(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	entries, err := conn.List(dir.Path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir.String(), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type != ftp.EntryTypeFile {
			continue
		}
		names = append(names, e.Name)
	}
	return names, nil
}

func (t *ftpTransport) Retrieve(ctx context.Context, src *url.URL, dst string) (int64, error) {

	conn, err := t.connect(ctx, src)
	if err != nil {
		return 0, err
	}
	defer conn.Quit()

	r, err := conn.Retr(src.Path)
	if err != nil {
		return 0, fmt.Errorf("retrieve %s: %w", src.String(), err)
	}
	defer r.Close()

	out, err := os.Create(dst)
	if err != nil {
		t.logger.Error().Err(err).Str("path", dst).Msg("Create file")
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, r)
	if err != nil {
		return n, fmt.Errorf("retrieve %s: %w", src.String(), err)
	}
	return n, nil
}
