// Package safefile opens local files for socdash without following symbolic
// links and with a size cap. Config files and log files picked up by the
// watcher go through here.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxLogBytes caps log files sent to the backend.
const MaxLogBytes = 32 << 20

// MaxConfigBytes caps config files.
const MaxConfigBytes = 1 << 20

var (
	ErrSymlink  = errors.New("symbolic link rejected")
	ErrTooLarge = errors.New("file too large")
	ErrNotFile  = errors.New("not a regular file")
)

// check stats path without following links.
func check(path string, maxBytes int64) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrSymlink)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFile)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("%s is %d bytes, max %d: %w", path, info.Size(), maxBytes, ErrTooLarge)
	}
	return info, nil
}

// ReadFileMax reads path after verifying it is a regular file no larger
// than maxBytes.
func ReadFileMax(path string, maxBytes int64) ([]byte, error) {
	if _, err := check(path, maxBytes); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only
	return readLimited(f, maxBytes, path)
}

// Open opens path for streaming after the same checks as ReadFileMax. The
// returned reader stops at maxBytes+1 so a file that grows after the check
// is caught by the consumer's size error.
func Open(path string, maxBytes int64) (io.ReadCloser, error) {
	if _, err := check(path, maxBytes); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		return f, nil
	}
	return &limitedFile{r: io.LimitReader(f, maxBytes+1), f: f, max: maxBytes, path: path}, nil
}

type limitedFile struct {
	r    io.Reader
	f    *os.File
	n    int64
	max  int64
	path string
}

func (l *limitedFile) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return n, fmt.Errorf("%s grew past %d bytes: %w", l.path, l.max, ErrTooLarge)
	}
	return n, err
}

func (l *limitedFile) Close() error { return l.f.Close() }

func readLimited(f *os.File, maxBytes int64, path string) ([]byte, error) {
	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s grew past %d bytes: %w", path, maxBytes, ErrTooLarge)
	}
	return data, nil
}

// Tail is the unread end of a file, from Start up to the size seen at open.
type Tail struct {
	Start int64
	End   int64
	r     *io.SectionReader
	f     *os.File
}

// OpenTail opens path for reading from offset to its current end. An offset
// past the end means the file was truncated or replaced, and reading starts
// over from zero. Only the tail is held to maxBytes.
func OpenTail(path string, offset, maxBytes int64) (*Tail, error) {
	info, err := check(path, 0)
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if offset < 0 || offset > size {
		offset = 0
	}
	if maxBytes > 0 && size-offset > maxBytes {
		return nil, fmt.Errorf("%s has %d new bytes, max %d: %w", path, size-offset, maxBytes, ErrTooLarge)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Tail{
		Start: offset,
		End:   size,
		r:     io.NewSectionReader(f, offset, size-offset),
		f:     f,
	}, nil
}

// Len is the number of bytes in the tail.
func (t *Tail) Len() int64 { return t.End - t.Start }

func (t *Tail) Read(p []byte) (int, error) { return t.r.Read(p) }

func (t *Tail) Close() error { return t.f.Close() }
