package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Source opens the raw tabular export for a run. The production source is a
// public Google Sheets export; tests substitute fixtures.
type Source interface {
	Open(ctx context.Context, sourceID string) (io.ReadCloser, error)
}

// driveExportURL is the CSV export endpoint for a public spreadsheet.
const driveExportURL = "https://docs.google.com/spreadsheets/d/%s/export?format=csv"

// DriveSource fetches the sheet over HTTP. A nil Client uses
// http.DefaultClient; callers that need a timeout supply their own.
type DriveSource struct {
	Client *http.Client
}

// Open streams the CSV export for the given sheet id. Transport failures
// are fatal to the run; there is no retry.
func (s *DriveSource) Open(ctx context.Context, sourceID string) (io.ReadCloser, error) {
	url := fmt.Sprintf(driveExportURL, sourceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %s: %w", sourceID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch sheet %s: unexpected status %s", sourceID, resp.Status)
	}

	return resp.Body, nil
}

// bomSkippingReader wraps an io.Reader and skips the UTF-8 BOM
// (0xEF 0xBB 0xBF) if present. Exports produced on Windows commonly
// carry one, and encoding/csv would otherwise fold it into the first
// header cell.
type bomSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	bufData    []byte
	bufOffset  int
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{reader: r}
}

func (r *bomSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if n == 0 {
			return 0, err
		}

		if n >= 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
			r.bufData = nil
		} else {
			r.bufData = r.buf[:n]
			r.bufOffset = 0
		}

		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
	}

	if len(r.bufData) > r.bufOffset {
		copied := copy(p, r.bufData[r.bufOffset:])
		r.bufOffset += copied
		if r.bufOffset >= len(r.bufData) {
			r.bufData = nil
		}
		return copied, nil
	}

	return r.reader.Read(p)
}

// countingReader tracks bytes read from the remote stream so the run can
// report how much it pulled.
type countingReader struct {
	reader    io.Reader
	bytesRead int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.bytesRead += int64(n)
	return n, err
}
