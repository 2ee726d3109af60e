package seqio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/grailbio/backtoseq/seqchunk"
)

// NewAutoRecordReader sniffs the first non-blank byte of r to decide
// between FASTA ('>') and FASTQ ('@') framing and dispatches to the
// matching reader. filenameHint is used only in error messages — format is
// determined from content, since compression has already been stripped by
// OpenAuto by the time this is called.
func NewAutoRecordReader(r io.Reader, filenameHint string) (seqchunk.RecordReader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return NewFASTAReader(br), nil // empty input, format is moot
			}
			return nil, errors.Wrapf(err, "seqio: sniff %s", filenameHint)
		}
		switch b[0] {
		case '>':
			return NewFASTAReader(br), nil
		case '@':
			return NewFASTQReader(br), nil
		case '\n', '\r':
			if _, err := br.Discard(1); err != nil {
				return nil, err
			}
			continue
		default:
			return nil, errors.Errorf("seqio: %s: unrecognized record framing (starts with %q)", filenameHint, b[0])
		}
	}
}
