package seqio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// OpenAuto opens path — local, or any scheme github.com/grailbio/base/file
// supports (e.g. s3://) — and transparently wraps it in a gzip or zstd
// decompressor, detected first from the file extension and, failing that,
// from the stream's magic bytes.
func OpenAuto(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "seqio: open %s", path)
	}
	closeUnderlying := func() error { return f.Close(ctx) }
	br := bufio.NewReaderSize(f.Reader(ctx), 64*1024)

	switch {
	case strings.HasSuffix(path, ".gz"):
		return wrapGzip(br, closeUnderlying)
	case strings.HasSuffix(path, ".zst"):
		return wrapZstd(br, closeUnderlying)
	}

	peek, peekErr := br.Peek(4)
	if peekErr != nil && peekErr != io.EOF && peekErr != bufio.ErrBufferFull {
		closeUnderlying()
		return nil, errors.Wrapf(peekErr, "seqio: sniff %s", path)
	}
	switch {
	case len(peek) >= 2 && peek[0] == gzipMagic[0] && peek[1] == gzipMagic[1]:
		return wrapGzip(br, closeUnderlying)
	case len(peek) >= 4 && bytes.Equal(peek[:4], zstdMagic):
		return wrapZstd(br, closeUnderlying)
	}
	return &readCloser{Reader: br, closeFn: closeUnderlying}, nil
}

// readCloser pairs a plain io.Reader with an arbitrary close callback.
type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r *readCloser) Close() error { return r.closeFn() }

func wrapGzip(r io.Reader, closeUnderlying func() error) (io.ReadCloser, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		closeUnderlying()
		return nil, errors.Wrap(err, "seqio: gzip header")
	}
	return &readCloser{
		Reader: gz,
		closeFn: func() error {
			gzErr := gz.Close()
			underErr := closeUnderlying()
			if gzErr != nil {
				return gzErr
			}
			return underErr
		},
	}, nil
}

func wrapZstd(r io.Reader, closeUnderlying func() error) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		closeUnderlying()
		return nil, errors.Wrap(err, "seqio: zstd header")
	}
	return &readCloser{
		Reader: dec,
		closeFn: func() error {
			dec.Close()
			return closeUnderlying()
		},
	}, nil
}
