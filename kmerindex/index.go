// Package kmerindex builds the reference k-mer index: a single-threaded
// scan of reference records that extracts every valid, sufficiently complex
// k-mer and inserts its canonical form into a map of match accumulators.
package kmerindex

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/backtoseq/matchacc"
	"github.com/grailbio/backtoseq/seqnorm"
)

// AccumulatorKind selects which matchacc.Accumulator shape backs every key.
type AccumulatorKind int

const (
	Count AccumulatorKind = iota
	Positional
)

// Index maps canonical k-mer bytes to a match accumulator. It is built once,
// single-threaded, before the pipeline starts; afterward it is read-shared
// across worker goroutines (only the accumulator values, never the map
// itself, are mutated concurrently).
type Index struct {
	K        int
	Stranded bool
	kind     AccumulatorKind
	table    map[string]matchacc.Accumulator
}

// Record is the minimal reference-record shape the builder needs: an id is
// never used by C2, so only the sequence is accepted.
type Record struct {
	Seq []byte
}

// New builds an index from refs, a stream of reference records, with fixed
// k-mer size k. stranded disables canonical folding (keys are kept as read,
// not folded to their reverse complement's minimum). noLowComplexity drops
// any k-mer whose Shannon entropy over base frequencies is below 1.0 bits.
func New(refs []Record, k int, stranded, noLowComplexity bool, kind AccumulatorKind) *Index {
	idx := &Index{
		K:        k,
		Stranded: stranded,
		kind:     kind,
		table:    make(map[string]matchacc.Accumulator),
	}
	var nInserted, nSkippedLowComplexity int
	for _, rec := range refs {
		nInserted, nSkippedLowComplexity = idx.insertRecord(rec.Seq, noLowComplexity, nInserted, nSkippedLowComplexity)
	}
	log.Printf("kmerindex: inserted %d distinct k-mers (%d dropped by low-complexity filter)", nInserted, nSkippedLowComplexity)
	return idx
}

func (idx *Index) insertRecord(seq []byte, noLowComplexity bool, nInserted, nSkippedLowComplexity int) (int, int) {
	k := idx.K
	i := 0
	for i+k <= len(seq) {
		window := seq[i : i+k]
		if j, ok := firstInvalidBase(window); !ok {
			i += j + 1
			continue
		}
		if noLowComplexity && ShannonEntropy(window) < 1.0 {
			nSkippedLowComplexity++
			i++
			continue
		}
		key := idx.canonicalKey(window)
		if _, exists := idx.table[key]; !exists {
			idx.table[key] = idx.newAccumulator()
			nInserted++
		}
		i++
	}
	return nInserted, nSkippedLowComplexity
}

// canonicalKey returns the string key under which window should be stored:
// its canonical form unless the index is stranded, in which case the
// uppercased window itself.
func (idx *Index) canonicalKey(window []byte) string {
	mode := seqnorm.Canonical
	if idx.Stranded {
		mode = seqnorm.Forward
	}
	v := seqnorm.NewView(window, mode)
	buf := make([]byte, v.Len())
	v.CopyInto(buf)
	return string(buf)
}

func (idx *Index) newAccumulator() matchacc.Accumulator {
	if idx.kind == Positional {
		return matchacc.NewPositionalLog()
	}
	return matchacc.NewAtomicCount()
}

// firstInvalidBase scans window for the first byte outside {A,C,G,T}
// case-insensitively, returning its offset with ok false. ok is true (and
// offset 0) if every byte is valid.
func firstInvalidBase(window []byte) (offset int, ok bool) {
	for j, b := range window {
		if !seqnorm.ValidBase(b) {
			return j, false
		}
	}
	return 0, true
}

// Lookup looks up a raw (already-normalized) k-mer's accumulator, returning
// nil if absent.
func (idx *Index) Lookup(key []byte) matchacc.Accumulator {
	return idx.table[string(key)]
}

// Len returns the number of distinct k-mers in the index.
func (idx *Index) Len() int { return len(idx.table) }

// Each calls fn once per (kmer bytes, accumulator) pair. Iteration order is
// unspecified, matching the underlying map's own order.
func (idx *Index) Each(fn func(kmer []byte, acc matchacc.Accumulator)) {
	for k, acc := range idx.table {
		fn([]byte(k), acc)
	}
}
