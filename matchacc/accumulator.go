// Package matchacc implements the two match-accumulator shapes that live
// behind every key of the reference k-mer index: a lock-free atomic counter,
// and a mutex-guarded positional log of every (read_id, position, strand)
// triple that hit the k-mer.
package matchacc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
)

// KMerMatch is one occurrence of a k-mer in a query record.
type KMerMatch struct {
	ReadID   uint64
	Position int
	Forward  bool
}

// Accumulator is the polymorphic behavior shared by both variants: record a
// match, read back the total count, and render to text for the reference
// k-mer report.
type Accumulator interface {
	AddMatch(m KMerMatch)
	Count() uint64
	AppendText(dst []byte) []byte
}

// AtomicCount is a lock-free non-negative integer counter. AddMatch performs
// an atomic increment (sync/atomic); Count reads it back. This is the default
// accumulator shape.
type AtomicCount struct {
	n uint64
}

// NewAtomicCount returns a zero-valued atomic counter.
func NewAtomicCount() *AtomicCount { return &AtomicCount{} }

func (a *AtomicCount) AddMatch(KMerMatch) { atomic.AddUint64(&a.n, 1) }

func (a *AtomicCount) Count() uint64 { return atomic.LoadUint64(&a.n) }

func (a *AtomicCount) AppendText(dst []byte) []byte {
	return strconv.AppendUint(dst, a.Count(), 10)
}

// PositionalLog accumulates a count plus a varint-encoded byte log of every
// match. Encoding: per match, varint(ReadID) followed by varint(zigzag(pos,
// forward)) where the zigzag packing resolves the sign-of-zero ambiguity
// called out in the design notes:
//
//	encode = (position << 1) | (1 if reverse else 0)
//	decode: position = encode >> 1; reverse = encode & 1 == 1
//
// A single mutex guards both the count and the log; this is deliberately
// coarser-grained than the atomic variant because a match also has to append
// a variable number of log bytes.
type PositionalLog struct {
	mu    sync.Mutex
	count uint64
	log   []byte
}

// NewPositionalLog returns an empty positional log.
func NewPositionalLog() *PositionalLog { return &PositionalLog{} }

func encodeStrandedPosition(position int, forward bool) uint64 {
	v := uint64(position) << 1
	if !forward {
		v |= 1
	}
	return v
}

func decodeStrandedPosition(v uint64) (position int, forward bool) {
	return int(v >> 1), v&1 == 0
}

func (p *PositionalLog) AddMatch(m KMerMatch) {
	var buf [2 * binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], m.ReadID)
	n += binary.PutUvarint(buf[n:], encodeStrandedPosition(m.Position, m.Forward))

	p.mu.Lock()
	p.count++
	p.log = append(p.log, buf[:n]...)
	p.mu.Unlock()
}

func (p *PositionalLog) Count() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// AppendText renders the log as space-separated "(read_id,position,forward)"
// triples, in the temporal order matches were recorded.
func (p *PositionalLog) AppendText(dst []byte) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := bytes.NewReader(p.log)
	first := true
	for r.Len() > 0 {
		readID, err := binary.ReadUvarint(r)
		if err != nil {
			break
		}
		enc, err := binary.ReadUvarint(r)
		if err != nil {
			break
		}
		position, forward := decodeStrandedPosition(enc)
		if !first {
			dst = append(dst, ' ')
		}
		first = false
		dst = append(dst, fmt.Sprintf("(%d,%d,%t)", readID, position, forward)...)
	}
	return dst
}

// Matches decodes the full log into a slice, in the order matches were
// recorded. The reference-report writer uses AppendText instead.
func (p *PositionalLog) Matches() []KMerMatch {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []KMerMatch
	r := bytes.NewReader(p.log)
	for r.Len() > 0 {
		readID, err := binary.ReadUvarint(r)
		if err != nil {
			break
		}
		enc, err := binary.ReadUvarint(r)
		if err != nil {
			break
		}
		position, forward := decodeStrandedPosition(enc)
		out = append(out, KMerMatch{ReadID: readID, Position: position, Forward: forward})
	}
	return out
}
