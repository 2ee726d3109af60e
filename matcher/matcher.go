// Package matcher implements the per-record k-mer scan: given a shared
// reference index and one query sequence, it produces a
// matchfmt.MatchedSequence while feeding every hit back into the index's
// per-k-mer accumulators.
package matcher

import (
	"github.com/grailbio/backtoseq/kmerindex"
	"github.com/grailbio/backtoseq/matchacc"
	"github.com/grailbio/backtoseq/matchfmt"
	"github.com/grailbio/backtoseq/seqnorm"
)

// Options carries the run-wide knobs that affect scanning. K must match the
// index's K.
type Options struct {
	K              int
	Stranded       bool
	MapBothStrands bool
	QueryReverse   bool
	Positional     bool // produce a Positional MatchedSequence instead of CountOnly
}

// Match scans seq against idx, mutating idx's accumulators for every hit and
// returning the resulting per-record statistics. readID identifies seq in
// the overall stream and is recorded into every matchacc.KMerMatch.
//
// If opts.QueryReverse is set, seq is reverse-complemented in place before
// scanning (requires opts.Stranded to be meaningful; see design notes).
func Match(idx *kmerindex.Index, seq []byte, readID uint64, opts Options) (matchfmt.MatchedSequence, error) {
	if opts.QueryReverse {
		if err := seqnorm.ReverseComplementInPlace(seq); err != nil {
			return matchfmt.MatchedSequence{}, err
		}
	}

	k := opts.K
	mappedPositions := len(seq) - k + 1
	if mappedPositions < 0 {
		mappedPositions = 0
	}

	var result matchfmt.MatchedSequence
	if opts.Positional {
		result = matchfmt.NewPositional(mappedPositions)
	} else {
		result = matchfmt.NewCountOnly(mappedPositions)
	}
	if len(seq) < k {
		return result, nil
	}

	scratch := make([]byte, k)
	firstUncovered := 0

	for i := 0; i+k <= len(seq); i++ {
		window := seq[i : i+k]

		if opts.MapBothStrands {
			if hit, isForward := probe(idx, window, scratch, seqnorm.Forward); hit != nil {
				firstUncovered = record(&result, idx, hit, i, k, isForward, readID, firstUncovered)
				continue
			}
			if hit, isForward := probe(idx, window, scratch, seqnorm.Reverse); hit != nil {
				firstUncovered = record(&result, idx, hit, i, k, isForward, readID, firstUncovered)
			}
			continue
		}

		mode := seqnorm.Forward
		if !opts.Stranded {
			mode = seqnorm.Canonical
		}
		view := seqnorm.NewView(window, mode)
		view.CopyInto(scratch)
		if acc := idx.Lookup(scratch); acc != nil {
			firstUncovered = record(&result, idx, acc, i, k, view.IsRaw(), readID, firstUncovered)
		}
	}

	return result, nil
}

// probe normalizes window under mode into scratch and looks it up,
// returning the matching accumulator (nil on a miss) and whether the probed
// strand was forward.
func probe(idx *kmerindex.Index, window, scratch []byte, mode seqnorm.Mode) (matchacc.Accumulator, bool) {
	v := seqnorm.NewView(window, mode)
	v.CopyInto(scratch)
	return idx.Lookup(scratch), mode == seqnorm.Forward
}

// record appends a hit to result, updates the coverage counter, and feeds
// the accumulator. It returns the updated firstUncovered cursor.
func record(result *matchfmt.MatchedSequence, idx *kmerindex.Index, acc matchacc.Accumulator, i, k int, forward bool, readID uint64, firstUncovered int) int {
	result.AddMatch(i, forward)
	if firstUncovered <= i {
		result.CoveredBases += k
	} else {
		result.CoveredBases += i + k - firstUncovered
	}
	acc.AddMatch(matchacc.KMerMatch{ReadID: readID, Position: i, Forward: forward})
	return i + k
}
