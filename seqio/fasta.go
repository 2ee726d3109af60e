package seqio

import (
	"bufio"
	"io"

	"github.com/grailbio/backtoseq/seqchunk"
)

// maxRecordLineSize bounds the longest single line this package will
// buffer, generous enough for whole chromosome-length sequences. A FASTA
// record's concatenated sequence lines are not bounded by it.
const maxRecordLineSize = 300 * 1024 * 1024

// fastaReader implements seqchunk.RecordReader over multi-line FASTA:
// sequence lines are concatenated until the next '>' header or EOF.
type fastaReader struct {
	sc            *bufio.Scanner
	pendingHeader []byte
	id            []byte
	seq           []byte
	eof           bool
	err           error
}

// NewFASTAReader returns a RecordReader over FASTA-formatted r.
func NewFASTAReader(r io.Reader) seqchunk.RecordReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordLineSize)
	return &fastaReader{sc: sc}
}

func (f *fastaReader) Next() bool {
	if f.err != nil || (f.eof && f.pendingHeader == nil) {
		return false
	}

	var header []byte
	if f.pendingHeader != nil {
		header = f.pendingHeader
		f.pendingHeader = nil
	} else {
		for {
			if !f.sc.Scan() {
				f.err = f.sc.Err()
				f.eof = true
				return false
			}
			line := f.sc.Bytes()
			if len(line) > 0 && line[0] == '>' {
				header = append([]byte(nil), line...)
				break
			}
		}
	}

	f.id = header
	f.seq = f.seq[:0]
	for f.sc.Scan() {
		line := f.sc.Bytes()
		if len(line) > 0 && line[0] == '>' {
			f.pendingHeader = append([]byte(nil), line...)
			return true
		}
		f.seq = append(f.seq, line...)
	}
	if err := f.sc.Err(); err != nil {
		f.err = err
	}
	f.eof = true
	return true
}

func (f *fastaReader) Record() seqchunk.Record {
	return seqchunk.Record{ID: f.id, Seq: f.seq}
}

func (f *fastaReader) Err() error { return f.err }
