package output

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/grailbio/backtoseq/kmerindex"
	"github.com/grailbio/backtoseq/matchfmt"
	"github.com/grailbio/backtoseq/seqchunk"
)

func TestWriteFilteredRecordEmitsWithinThresholds(t *testing.T) {
	buf := []byte(">r1ignored\nACGT")
	chunk := &seqchunk.Chunk{
		Buf: buf,
		Records: []seqchunk.RecordDescriptor{
			{IDRange: seqchunk.Range{Start: 0, End: 10}, SeqRange: seqchunk.Range{Start: 11, End: 15}},
		},
	}
	result := matchfmt.NewCountOnly(4)
	result.AddMatch(0, true)
	result.AddMatch(1, true)
	chunk.Records[0].Result = result

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	if err := WriteFilteredRecord(w, chunk, &chunk.Records[0], Thresholds{Min: 0, Max: 100}); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	want := ">r1ignored 2 50\nACGT\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestWriteFilteredRecordPreservesFASTQFraming(t *testing.T) {
	buf := []byte("@r1ACGTIIII")
	chunk := &seqchunk.Chunk{
		Buf: buf,
		Records: []seqchunk.RecordDescriptor{
			{
				IDRange:   seqchunk.Range{Start: 0, End: 3},
				SeqRange:  seqchunk.Range{Start: 3, End: 7},
				QualRange: seqchunk.Range{Start: 7, End: 11},
			},
		},
	}
	result := matchfmt.NewCountOnly(4)
	result.AddMatch(0, true)
	chunk.Records[0].Result = result

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	if err := WriteFilteredRecord(w, chunk, &chunk.Records[0], Thresholds{Min: 0, Max: 100}); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	want := "@r1 1 25\nACGT\n+\nIIII\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestWriteFilteredRecordSkipsBelowThreshold(t *testing.T) {
	buf := []byte(">r1\nACGT")
	chunk := &seqchunk.Chunk{
		Buf: buf,
		Records: []seqchunk.RecordDescriptor{
			{IDRange: seqchunk.Range{Start: 0, End: 3}, SeqRange: seqchunk.Range{Start: 3, End: 7}},
		},
	}
	result := matchfmt.NewCountOnly(4) // 0 matches -> percent 0
	chunk.Records[0].Result = result

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	// min=0 exclusive means percent=0 must NOT be emitted.
	if err := WriteFilteredRecord(w, chunk, &chunk.Records[0], Thresholds{Min: 0, Max: 100}); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if out.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", out.String())
	}
}

func TestWriteFilteredRecordSkipsMissingResult(t *testing.T) {
	chunk := &seqchunk.Chunk{Buf: []byte("x")}
	rec := &seqchunk.RecordDescriptor{}
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	if err := WriteFilteredRecord(w, chunk, rec, Thresholds{Min: 0, Max: 100}); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if out.Len() != 0 {
		t.Fatal("expected nothing written when rec.Result has no MatchedSequence")
	}
}

func TestWriteKmerReportThreshold(t *testing.T) {
	idx := kmerindex.New([]kmerindex.Record{{Seq: []byte("ACGTACGT")}}, 4, false, false, kmerindex.Count)

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	if err := WriteKmerReport(w, idx, 0); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if out.Len() == 0 {
		t.Fatal("expected a non-empty report with threshold 0")
	}

	out.Reset()
	w = bufio.NewWriter(&out)
	if err := WriteKmerReport(w, idx, 1<<20); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if out.Len() != 0 {
		t.Fatal("expected an empty report for an unreachable threshold")
	}
}
