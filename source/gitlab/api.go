package gitlab

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gruntwork-io/gitlab-tasks/identity"
	"github.com/gruntwork-io/gitlab-tasks/source"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Maximum page size the GitLab API allows
const perPage = 100

// newClient creates an API client for the server of the connection.
// GitLab accepts personal, project and group access tokens in the PRIVATE-TOKEN header.
func newClient(conn identity.ServerConnection) (*gitlab.Client, error) {
	client, err := gitlab.NewClient(conn.AccessToken(), gitlab.WithBaseURL(conn.URL()))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client for %s: %w", conn.URL(), err)
	}
	return client, nil
}

// wrapApiError adds context to an error returned by the client and maps well-known status codes to the sentinel
// errors of the source package
func wrapApiError(err error, format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)

	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", message, source.ErrNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", message, source.ErrUnauthorized, err)
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}

// writeCounter tracks download progress
type writeCounter struct {
	written uint64
	suffix  string
	out     io.Writer
}

func newWriteCounter(total int64, out io.Writer) *writeCounter {
	if total > 0 {
		return &writeCounter{
			suffix: fmt.Sprintf(" / %s", humanize.Bytes(uint64(total))),
			out:    out,
		}
	}
	return &writeCounter{out: out}
}

func (wc *writeCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.written += uint64(n)
	wc.PrintProgress()
	return n, nil
}

func (wc writeCounter) PrintProgress() {
	fmt.Fprintf(wc.out, "\r%s", strings.Repeat(" ", 35))
	fmt.Fprintf(wc.out, "\rDownloading... %s%s", humanize.Bytes(wc.written), wc.suffix)
}

// writeContentToDisk writes downloaded content to destPath, creating missing parent directories
func writeContentToDisk(content []byte, destPath string, progress io.Writer) error {
	if dir := filepath.Dir(destPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	var reader io.Reader = bytes.NewReader(content)
	if progress != nil {
		reader = io.TeeReader(reader, newWriteCounter(int64(len(content)), progress))
	}
	_, err = io.Copy(out, reader)
	return err
}
