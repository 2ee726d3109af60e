package seqio

import (
	"strings"
	"testing"
)

func TestFASTAReaderMultiLine(t *testing.T) {
	data := ">seq1 desc\nACGT\nACGT\n>seq2\nTTTT\n"
	r := NewFASTAReader(strings.NewReader(data))

	if !r.Next() {
		t.Fatal("expected first record")
	}
	rec := r.Record()
	if string(rec.ID) != ">seq1 desc" {
		t.Errorf("id = %q", rec.ID)
	}
	if string(rec.Seq) != "ACGTACGT" {
		t.Errorf("seq = %q", rec.Seq)
	}

	if !r.Next() {
		t.Fatal("expected second record")
	}
	rec = r.Record()
	if string(rec.ID) != ">seq2" || string(rec.Seq) != "TTTT" {
		t.Errorf("got id=%q seq=%q", rec.ID, rec.Seq)
	}

	if r.Next() {
		t.Fatal("expected EOF")
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestFASTQReader(t *testing.T) {
	data := "@r1\nACGT\n+\nIIII\n@r2\nTTTT\n+r2\nJJJJ\n"
	r := NewFASTQReader(strings.NewReader(data))

	var ids, seqs, quals []string
	for r.Next() {
		rec := r.Record()
		ids = append(ids, string(rec.ID))
		seqs = append(seqs, string(rec.Seq))
		quals = append(quals, string(rec.Qual))
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if len(ids) != 2 {
		t.Fatalf("got %d records, want 2", len(ids))
	}
	if ids[0] != "@r1" || seqs[0] != "ACGT" || quals[0] != "IIII" {
		t.Errorf("record 0 = %q %q %q", ids[0], seqs[0], quals[0])
	}
	if ids[1] != "@r2" || seqs[1] != "TTTT" || quals[1] != "JJJJ" {
		t.Errorf("record 1 = %q %q %q", ids[1], seqs[1], quals[1])
	}
}

func TestFASTQReaderTruncatedRecord(t *testing.T) {
	data := "@r1\nACGT\n+\n" // missing quality line
	r := NewFASTQReader(strings.NewReader(data))
	if r.Next() {
		t.Fatal("expected failure on truncated record")
	}
	if r.Err() == nil {
		t.Fatal("expected a truncation error")
	}
}

func TestNewAutoRecordReaderDispatchesFASTA(t *testing.T) {
	rr, err := NewAutoRecordReader(strings.NewReader(">a\nACGT\n"), "test.fa")
	if err != nil {
		t.Fatal(err)
	}
	if !rr.Next() {
		t.Fatal("expected a record")
	}
	if string(rr.Record().Seq) != "ACGT" {
		t.Errorf("got %q", rr.Record().Seq)
	}
}

func TestNewAutoRecordReaderDispatchesFASTQ(t *testing.T) {
	rr, err := NewAutoRecordReader(strings.NewReader("@a\nACGT\n+\nIIII\n"), "test.fq")
	if err != nil {
		t.Fatal(err)
	}
	if !rr.Next() {
		t.Fatal("expected a record")
	}
	if string(rr.Record().Seq) != "ACGT" {
		t.Errorf("got %q", rr.Record().Seq)
	}
}

func TestNewAutoRecordReaderRejectsUnknownFraming(t *testing.T) {
	_, err := NewAutoRecordReader(strings.NewReader("not a sequence file"), "test.txt")
	if err == nil {
		t.Fatal("expected an error for unrecognized framing")
	}
}
