package seqchunk

// Default tunables for chunk sizing.
const (
	DefaultChunkBufSize       = 64 * 1024
	DefaultChunkRecordsInitial = 512
)

// Chunker groups records pulled one at a time from a RecordReader into
// Chunks of at most bufSize bytes (a single oversized record is the only
// thing allowed to grow a Chunk past that budget). Chunk ids are assigned
// monotonically from 0, and read ids are assigned monotonically across the
// whole stream regardless of chunk boundaries.
type Chunker struct {
	r              RecordReader
	bufSize        int
	includeFraming bool

	nextChunkID uint64
	nextReadID  uint64

	pending *Record // a record read for the next chunk, copied out already
	err     error
}

// NewChunker returns a Chunker pulling from r. bufSize <= 0 selects
// DefaultChunkBufSize. includeFraming controls whether header and
// quality-line bytes are copied into chunks at all (disabling it saves
// copies when neither will ever be needed downstream, e.g. a run with no
// -out-sequences/-out-filelist).
func NewChunker(r RecordReader, bufSize int, includeFraming bool) *Chunker {
	if bufSize <= 0 {
		bufSize = DefaultChunkBufSize
	}
	return &Chunker{r: r, bufSize: bufSize, includeFraming: includeFraming}
}

// Next returns the next Chunk, or ok=false once the underlying reader is
// exhausted (check Err in that case). A returned Chunk always holds at
// least one record; an empty terminal chunk is never emitted.
func (ck *Chunker) Next() (chunk *Chunk, ok bool, err error) {
	if ck.err != nil {
		return nil, false, ck.err
	}

	for {
		rec, hasRec, err := ck.nextRecord()
		if err != nil {
			ck.err = err
			return nil, false, err
		}
		if !hasRec {
			break
		}

		idLen, qualLen := 0, 0
		if ck.includeFraming {
			idLen, qualLen = len(rec.ID), len(rec.Qual)
		}
		needed := idLen + len(rec.Seq) + qualLen

		if chunk != nil && ck.bufSize < len(chunk.Buf)+needed {
			// Current chunk is full; this record starts the next one.
			ck.pending = copyRecord(rec, ck.includeFraming)
			break
		}
		if chunk == nil {
			chunk = newChunk(ck.nextChunkID, ck.bufSize)
			ck.nextChunkID++
		}
		ck.appendRecord(chunk, rec)
	}

	if chunk == nil {
		return nil, false, nil
	}
	return chunk, true, nil
}

// nextRecord returns the pending record stashed by a previous call, if any,
// otherwise pulls a fresh one from the reader without copying it.
func (ck *Chunker) nextRecord() (Record, bool, error) {
	if ck.pending != nil {
		rec := *ck.pending
		ck.pending = nil
		return rec, true, nil
	}
	if !ck.r.Next() {
		return Record{}, false, ck.r.Err()
	}
	rec := ck.r.Record()
	// rec's backing arrays are only valid until the next Next() call, which
	// we won't make until this record has been copied into a chunk buffer
	// (appendRecord) or stashed as pending (copyRecord). Safe either way.
	return rec, true, nil
}

func copyRecord(rec Record, includeFraming bool) *Record {
	out := &Record{Seq: append([]byte(nil), rec.Seq...)}
	if includeFraming {
		out.ID = append([]byte(nil), rec.ID...)
		out.Qual = append([]byte(nil), rec.Qual...)
	}
	return out
}

func newChunk(id uint64, bufSize int) *Chunk {
	return &Chunk{ChunkID: id, Buf: make([]byte, 0, bufSize)}
}

func (ck *Chunker) appendRecord(chunk *Chunk, rec Record) {
	var idRange Range
	if ck.includeFraming {
		start := len(chunk.Buf)
		chunk.Buf = append(chunk.Buf, rec.ID...)
		idRange = Range{Start: start, End: len(chunk.Buf)}
	}
	start := len(chunk.Buf)
	chunk.Buf = append(chunk.Buf, rec.Seq...)
	seqRange := Range{Start: start, End: len(chunk.Buf)}

	var qualRange Range
	if ck.includeFraming && len(rec.Qual) > 0 {
		start := len(chunk.Buf)
		chunk.Buf = append(chunk.Buf, rec.Qual...)
		qualRange = Range{Start: start, End: len(chunk.Buf)}
	}

	chunk.Records = append(chunk.Records, RecordDescriptor{
		ReadID:    ck.nextReadID,
		IDRange:   idRange,
		SeqRange:  seqRange,
		QualRange: qualRange,
	})
	ck.nextReadID++
}
