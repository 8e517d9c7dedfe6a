// Package fetcher retrieves published reference tables (equipment spec
// sheets, wage surveys) over HTTP and FTP and parses the formats they
// ship in: CSV, XLSX, JSON, and zipped variants of each.
package fetcher

import (
	"context"
	"io"
)

// Fetcher retrieves a remote file. Both the HTTP and FTP transports
// implement it; callers that need conditional requests use HTTPFetcher
// directly.
type Fetcher interface {
	// Download returns the remote file's contents. The caller closes
	// the reader.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile writes the remote file to path and reports the
	// number of bytes written.
	DownloadToFile(ctx context.Context, url, path string) (int64, error)
}
