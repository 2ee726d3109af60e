// Package matchfmt implements the two MatchedSequence result shapes and
// their text serialization.
package matchfmt

import (
	"math"
	"strconv"
)

// Match is one k-mer hit recorded against a query record.
type Match struct {
	Position int
	Forward  bool
}

// MatchedSequence is the per-record result produced by the matcher for one
// query sequence. Positional selects which of the two result shapes this
// value represents; Matches is only populated when Positional is true.
// CoveredBases is always computed by the matcher, regardless of shape, but
// only the positional formatter prints it.
type MatchedSequence struct {
	MappedPositions int
	Count           int
	Matches         []Match
	CoveredBases    int
	Positional      bool
}

// NewCountOnly returns an empty CountOnly-shaped result for a query with the
// given number of mapped positions.
func NewCountOnly(mappedPositions int) MatchedSequence {
	return MatchedSequence{MappedPositions: mappedPositions}
}

// NewPositional returns an empty Positional-shaped result.
func NewPositional(mappedPositions int) MatchedSequence {
	return MatchedSequence{MappedPositions: mappedPositions, Positional: true}
}

// AddMatch records a hit at position with the given strand. In Positional
// mode the (position, forward) pair is appended to Matches; in CountOnly
// mode only the running count is incremented.
func (m *MatchedSequence) AddMatch(position int, forward bool) {
	m.Count++
	if m.Positional {
		m.Matches = append(m.Matches, Match{Position: position, Forward: forward})
	}
}

// Percent returns 100*count/mapped_positions, or 0 if mapped_positions == 0.
func (m MatchedSequence) Percent() float64 {
	if m.MappedPositions == 0 {
		return 0
	}
	return 100 * float64(m.Count) / float64(m.MappedPositions)
}

// roundPercent rounds x to 5 decimal places, half-away-from-zero: multiply
// by 1e5, round, divide by 1e5.
func roundPercent(x float64) float64 {
	const scale = 1e5
	y := x * scale
	if y >= 0 {
		y = math.Floor(y + 0.5)
	} else {
		y = math.Ceil(y - 0.5)
	}
	return y / scale
}

// AppendText appends the formatter text for m to dst: CountOnly renders as
// " <count> <percent>"; Positional renders as
// " <count> <percent> <pos_or_-pos>... (<covered_bases>)", with a leading
// minus sign denoting a reverse-strand match.
func (m MatchedSequence) AppendText(dst []byte) []byte {
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(m.Count), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, roundPercent(m.Percent()), 'f', -1, 64)
	if !m.Positional {
		return dst
	}
	for _, mt := range m.Matches {
		dst = append(dst, ' ')
		if !mt.Forward {
			dst = append(dst, '-')
		}
		dst = strconv.AppendInt(dst, int64(mt.Position), 10)
	}
	dst = append(dst, " ("...)
	dst = strconv.AppendInt(dst, int64(m.CoveredBases), 10)
	dst = append(dst, ')')
	return dst
}

// Text is a convenience wrapper around AppendText.
func (m MatchedSequence) Text() string {
	return string(m.AppendText(nil))
}
