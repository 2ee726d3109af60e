// Package output implements the two output surfaces this engine produces:
// the filtered per-record sequence stream, and the reference-k-mer report.
package output

import (
	"bufio"

	"github.com/grailbio/backtoseq/kmerindex"
	"github.com/grailbio/backtoseq/matchacc"
	"github.com/grailbio/backtoseq/matchfmt"
	"github.com/grailbio/backtoseq/seqchunk"
)

// Thresholds bounds which records get emitted: a record is written only if
// min < percent <= max (open lower bound, closed upper bound — a deliberate
// asymmetry so a 0.0 minimum still excludes true zero-percent records).
type Thresholds struct {
	Min, Max float64
}

// WriteFilteredRecord writes rec to w if its matched-sequence result falls
// within thresholds. The emitted framing is the original header bytes
// (whatever the reader preserved in the id range, sigil included) followed
// immediately by the formatter text, a newline, the sequence bytes, a
// trailing newline, and — for a FASTQ record — a "+" line and the quality
// bytes. rec.Result must hold a matchfmt.MatchedSequence; records without
// one (e.g. no worker ever ran) are silently skipped.
func WriteFilteredRecord(w *bufio.Writer, chunk *seqchunk.Chunk, rec *seqchunk.RecordDescriptor, thresholds Thresholds) error {
	result, ok := rec.Result.(matchfmt.MatchedSequence)
	if !ok {
		return nil
	}
	percent := result.Percent()
	if !(percent > thresholds.Min && percent <= thresholds.Max) {
		return nil
	}

	if _, err := w.Write(chunk.ID(*rec)); err != nil {
		return err
	}
	if _, err := w.Write(result.AppendText(nil)); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := w.Write(chunk.Seq(*rec)); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}

	if qual := chunk.Qual(*rec); qual != nil {
		if _, err := w.WriteString("+\n"); err != nil {
			return err
		}
		if _, err := w.Write(qual); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}
	return nil
}

// WriteKmerReport writes one line per reference k-mer whose accumulator
// count is >= countedThreshold: "<kmer-bytes> <accumulator-text>\n". Order
// is unspecified, matching kmerindex.Index.Each's map iteration order.
func WriteKmerReport(w *bufio.Writer, idx *kmerindex.Index, countedThreshold uint64) error {
	var werr error
	idx.Each(func(kmer []byte, acc matchacc.Accumulator) {
		if werr != nil {
			return
		}
		if acc.Count() < countedThreshold {
			return
		}
		if _, err := w.Write(kmer); err != nil {
			werr = err
			return
		}
		if err := w.WriteByte(' '); err != nil {
			werr = err
			return
		}
		if _, err := w.Write(acc.AppendText(nil)); err != nil {
			werr = err
			return
		}
		werr = w.WriteByte('\n')
	})
	return werr
}
