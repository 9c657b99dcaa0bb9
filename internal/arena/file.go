// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadFile reads the whole file at path into arena memory.
//
// The region is NUL-terminated one byte past the returned slice. Open and
// read failures are returned unwrapped (*fs.PathError) so callers can test
// them with errors.Is(err, fs.ErrNotExist); a file that does not fit yields
// an error wrapping ErrOutOfMemory.
func (a *Arena) ReadFile(path string) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := int(info.Size())
	buf, err := a.Alloc(size + 1)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// A file may shrink while an editor is saving it; keep what was read.
	n, err := io.ReadFull(f, buf[:size])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, &os.PathError{Op: "read", Path: path, Err: err}
	}
	buf[n] = 0
	return buf[:n], nil
}

// ReadText reads a UTF-8 text file into arena memory, dropping a leading
// byte order mark and replacing ill-formed sequences with U+FFFD.
func (a *Arena) ReadText(path string) ([]byte, error) {
	raw, err := a.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := a.Transform(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return text, nil
}

// Transform runs t over src, writing the output into arena memory.
// The destination starts at len(src) bytes and is moved to a region twice
// as large with Realloc whenever the transformer runs short of space.
func (a *Arena) Transform(t transform.Transformer, src []byte) ([]byte, error) {
	t.Reset()

	dst, err := a.Alloc(len(src))
	if err != nil {
		return nil, err
	}

	nDst := 0
	for {
		n, nSrc, err := t.Transform(dst[nDst:], src, true)
		nDst += n
		src = src[nSrc:]

		switch {
		case err == nil:
			return dst[:nDst], nil
		case errors.Is(err, transform.ErrShortDst):
			dst, err = a.Realloc(dst[:nDst], 2*len(dst)+utf8.UTFMax)
			if err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}
}
