// Package seqnorm provides zero-copy views over nucleotide sequence bytes:
// uppercasing, reverse-complementing, and canonical-form selection, without
// ever allocating or mutating the caller's backing array unless asked to.
package seqnorm

import "github.com/pkg/errors"

// Mode selects which normalized view of a sequence a View exposes.
type Mode int

const (
	Forward Mode = iota
	Reverse
	Canonical
)

// upperTable maps any byte to its uppercase ASCII form; non-letter bytes map
// to themselves.
var upperTable [256]byte

// complementTable maps an uppercased base to its Watson-Crick complement.
// Bytes outside {A,C,G,T} map to themselves; ErrInvalidBase is raised by
// callers that care about validity, not by the table lookup itself.
var complementTable [256]byte

func init() {
	for i := 0; i < 256; i++ {
		upperTable[i] = byte(i)
	}
	for c := byte('a'); c <= 'z'; c++ {
		upperTable[c] = c - 'a' + 'A'
	}
	for i := 0; i < 256; i++ {
		complementTable[i] = byte(i)
	}
	complementTable['A'], complementTable['T'] = 'T', 'A'
	complementTable['C'], complementTable['G'] = 'G', 'C'
	complementTable['a'], complementTable['t'] = 'T', 'A'
	complementTable['c'], complementTable['g'] = 'G', 'C'
}

// ErrInvalidBase is returned when a non-ASCII byte is encountered while
// complementing a sequence.
var ErrInvalidBase = errors.New("seqnorm: non-ASCII byte in sequence")

// Upper returns b uppercased.
func Upper(b byte) byte { return upperTable[b] }

// Complement returns the uppercased Watson-Crick complement of b. Bytes
// outside {A,C,G,T} (case-insensitive) are returned uppercased, unchanged;
// the caller is responsible for treating such bases as invalid for matching
// purposes (see kmerindex and matcher).
func Complement(b byte) byte { return complementTable[upperTable[b]] }

// View is a lazy, zero-copy window over raw sequence bytes in a chosen
// normalization mode. It is small enough to pass by value in a hot loop.
type View struct {
	raw   []byte
	mode  Mode
	isRaw bool // true if At(i) == Upper(raw[i]) for all i (Forward, or Canonical-picked-forward)
}

// NewView builds a View over raw in the given mode. Canonical mode compares
// the forward and reverse-complement readings lexicographically and commits
// to whichever is smaller (ties favor forward); the comparison short-circuits
// on the first differing byte and never allocates.
func NewView(raw []byte, mode Mode) View {
	v := View{raw: raw, mode: mode}
	switch mode {
	case Forward:
		v.isRaw = true
	case Reverse:
		v.isRaw = false
	case Canonical:
		v.isRaw = canonicalIsForward(raw)
	}
	return v
}

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.raw) }

// IsRaw reports whether At(i) == Upper(raw[i]) for every i — i.e. whether the
// normalized view is an uppercased-only pass-through of the input (true for
// Forward, and for Canonical when the forward reading was chosen).
func (v View) IsRaw() bool { return v.isRaw }

// At returns the i'th byte of the normalized view, uppercased.
func (v View) At(i int) byte {
	n := len(v.raw)
	switch v.mode {
	case Forward:
		return upperTable[v.raw[i]]
	case Reverse:
		return Complement(v.raw[n-1-i])
	default: // Canonical
		if v.isRaw {
			return upperTable[v.raw[i]]
		}
		return Complement(v.raw[n-1-i])
	}
}

// CopyInto copies the normalized bytes into dst, which must have length
// Len(). This is the reusable scratch-buffer path used by the matcher's
// inner loop to avoid per-window allocation.
func (v View) CopyInto(dst []byte) {
	n := len(v.raw)
	if v.mode == Forward || (v.mode == Canonical && v.isRaw) {
		for i := 0; i < n; i++ {
			dst[i] = upperTable[v.raw[i]]
		}
		return
	}
	for i := 0; i < n; i++ {
		dst[i] = Complement(v.raw[n-1-i])
	}
}

// canonicalIsForward reports whether the forward reading of raw is
// lexicographically <= its reverse complement, short-circuiting at the
// first differing byte.
func canonicalIsForward(raw []byte) bool {
	n := len(raw)
	for i := 0; i < n; i++ {
		f := upperTable[raw[i]]
		r := Complement(raw[n-1-i])
		if f != r {
			return f < r
		}
	}
	return true // tie: forward wins
}

// ReverseComplementInPlace overwrites raw with its own reverse complement,
// swapping from both ends toward the middle. Used by the matcher for
// query-reverse mode.
func ReverseComplementInPlace(raw []byte) error {
	n := len(raw)
	for i, j := 0, n-1; i <= j; i, j = i+1, j-1 {
		bi, bj := raw[i], raw[j]
		if bi > 127 || bj > 127 {
			return ErrInvalidBase
		}
		if i == j {
			raw[i] = Complement(bi)
			break
		}
		raw[i] = Complement(bj)
		raw[j] = Complement(bi)
	}
	return nil
}

// ValidBase reports whether b is one of {A,C,G,T} case-insensitively.
func ValidBase(b byte) bool {
	switch upperTable[b] {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}
