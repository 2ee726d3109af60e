// Package seqchunk groups records pulled from a reader into bounded,
// byte-budgeted Chunks: contiguous buffers owning copies of the id/sequence
// bytes of every record they hold, the unit of work the parallel pipeline
// moves between goroutines.
package seqchunk

// Record is the minimal shape a concrete reader (see seqio) hands to a
// Chunker: raw header and sequence bytes, valid only until the reader's
// next call. ID includes the original '>' or '@' sigil, so output can
// replay it verbatim. Qual is nil for FASTA records; for FASTQ it holds the
// quality line, carried along so filtered output can preserve FASTQ framing.
type Record struct {
	ID   []byte
	Seq  []byte
	Qual []byte
}

// RecordReader is the streaming contract C5 consumes from a concrete
// FASTA/FASTQ decoder. Bytes returned by Record are only valid until the
// next call to Next; a Chunker copies them out before advancing the reader.
type RecordReader interface {
	// Next reports whether another record is available. Callers must stop
	// iterating and call Err once it returns false.
	Next() bool
	// Record returns the most recently read record. Valid only until the
	// next call to Next.
	Record() Record
	// Err returns the first error encountered, if any, after Next returns
	// false.
	Err() error
}

// Range is a half-open byte interval [Start, End) into a Chunk's buffer.
type Range struct {
	Start, End int
}

// Empty reports whether the range carries no bytes (used when id storage is
// disabled).
func (r Range) Empty() bool { return r.Start == r.End }

// RecordDescriptor locates one record's id and sequence bytes within its
// Chunk's buffer. Result is filled in later, by a pipeline worker, with
// whatever per-record value the caller's map function produces (typically a
// matchfmt.MatchedSequence).
type RecordDescriptor struct {
	ReadID    uint64
	IDRange   Range
	SeqRange  Range
	QualRange Range
	Result    interface{}
}

// Chunk is a contiguous batch of records sharing one owned backing buffer.
// Chunks travel through channels as *Chunk pointers (the backing array is
// never copied); only one goroutine ever holds a Chunk at a time
// (reader -> worker -> writer).
type Chunk struct {
	ChunkID uint64
	Buf     []byte
	Records []RecordDescriptor
}

// ID returns the header bytes for descriptor rd, or nil if id storage was
// disabled for this run.
func (c *Chunk) ID(rd RecordDescriptor) []byte {
	if rd.IDRange.Empty() {
		return nil
	}
	return c.Buf[rd.IDRange.Start:rd.IDRange.End]
}

// Seq returns the sequence bytes for descriptor rd.
func (c *Chunk) Seq(rd RecordDescriptor) []byte {
	return c.Buf[rd.SeqRange.Start:rd.SeqRange.End]
}

// Qual returns the quality-line bytes for descriptor rd, or nil for a FASTA
// record (or when id/framing storage was disabled for this run).
func (c *Chunk) Qual(rd RecordDescriptor) []byte {
	if rd.QualRange.Empty() {
		return nil
	}
	return c.Buf[rd.QualRange.Start:rd.QualRange.End]
}
