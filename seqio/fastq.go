package seqio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/grailbio/backtoseq/seqchunk"
)

// fastqReader implements seqchunk.RecordReader over strict 4-line FASTQ
// records. The quality line is kept (not just scanned to stay in sync) so
// filtered output can replay it verbatim.
type fastqReader struct {
	sc   *bufio.Scanner
	id   []byte
	seq  []byte
	qual []byte
	err  error
}

// NewFASTQReader returns a RecordReader over FASTQ-formatted r.
func NewFASTQReader(r io.Reader) seqchunk.RecordReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordLineSize)
	return &fastqReader{sc: sc}
}

func (f *fastqReader) Next() bool {
	if f.err != nil {
		return false
	}
	if !f.sc.Scan() {
		f.err = f.sc.Err()
		return false
	}
	header := f.sc.Bytes()
	if len(header) == 0 || header[0] != '@' {
		f.err = errors.Errorf("seqio: fastq: expected '@' header, got %q", header)
		return false
	}
	f.id = append(f.id[:0], header...)

	if !f.scanLineInto(&f.seq) {
		return false
	}

	if !f.sc.Scan() {
		f.err = f.unexpectedEOF()
		return false
	}
	plus := f.sc.Bytes()
	if len(plus) == 0 || plus[0] != '+' {
		f.err = errors.Errorf("seqio: fastq: expected '+' separator, got %q", plus)
		return false
	}

	if !f.scanLineInto(&f.qual) {
		return false
	}
	return true
}

func (f *fastqReader) scanLineInto(dst *[]byte) bool {
	if !f.sc.Scan() {
		f.err = f.unexpectedEOF()
		return false
	}
	*dst = append((*dst)[:0], f.sc.Bytes()...)
	return true
}

func (f *fastqReader) unexpectedEOF() error {
	if err := f.sc.Err(); err != nil {
		return errors.Wrap(err, "seqio: fastq")
	}
	return errors.New("seqio: fastq: truncated record (unexpected EOF)")
}

func (f *fastqReader) Record() seqchunk.Record {
	return seqchunk.Record{ID: f.id, Seq: f.seq, Qual: f.qual}
}

func (f *fastqReader) Err() error { return f.err }
