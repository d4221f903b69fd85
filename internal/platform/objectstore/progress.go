package objectstore

import (
	"io"
	"sync"
)

// ProgressFunc receives the number of body bytes consumed so far and the total size.
type ProgressFunc func(read, total int64)

// progressReader reports bytes as the storage client pulls them from the body.
// Seeking back to the start (SDK retries, checksum passes) resets the count;
// callers that need monotonic progress keep their own high-water mark.
type progressReader struct {
	mu     sync.Mutex
	r      io.ReadSeeker
	total  int64
	read   int64
	report ProgressFunc
}

// NewProgressReader wraps body so every Read is reported to fn.
func NewProgressReader(body io.ReadSeeker, total int64, fn ProgressFunc) io.ReadSeeker {
	if fn == nil {
		return body
	}
	return &progressReader{r: body, total: total, report: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.read += int64(n)
		read := p.read
		p.mu.Unlock()
		p.report(read, p.total)
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.r.Seek(offset, whence)
	if err == nil {
		p.mu.Lock()
		p.read = pos
		p.mu.Unlock()
	}
	return pos, err
}
