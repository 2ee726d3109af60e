package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"

	"github.com/grailbio/backtoseq/config"
	"github.com/grailbio/backtoseq/kmerindex"
	"github.com/grailbio/backtoseq/matcher"
	"github.com/grailbio/backtoseq/output"
	"github.com/grailbio/backtoseq/pipeline"
	"github.com/grailbio/backtoseq/seqchunk"
	"github.com/grailbio/backtoseq/seqio"
)

// buildIndex reads cfg.InKmers in full (always FASTA) and builds the
// reference k-mer index once, before any query record is scanned.
func buildIndex(ctx context.Context, cfg config.Config) (*kmerindex.Index, error) {
	f, err := seqio.OpenAuto(ctx, cfg.InKmers)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rr := seqio.NewFASTAReader(f)
	var refs []kmerindex.Record
	for rr.Next() {
		rec := rr.Record()
		seq := append([]byte(nil), rec.Seq...)
		refs = append(refs, kmerindex.Record{Seq: seq})
	}
	if err := rr.Err(); err != nil {
		return nil, err
	}

	kind := kmerindex.Count
	if cfg.OutputKmerPositions {
		kind = kmerindex.Positional
	}
	return kmerindex.New(refs, int(cfg.KmerSize), cfg.Stranded, cfg.NoLowComplexity, kind), nil
}

// openAutoOrStdin is OpenAuto, except "" (the CLI's "read stdin" sentinel)
// returns os.Stdin wrapped in a no-op Closer.
func openAutoOrStdin(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return seqio.OpenAuto(ctx, path)
}

// runOne drives the pipeline for a single input/output pair: auto-detect
// in's framing, scan every record against idx, and (if outPath is set)
// write the filtered, annotated records back out in the same framing.
func runOne(ctx context.Context, cfg config.Config, idx *kmerindex.Index, inPath, outPath string) error {
	in, err := openAutoOrStdin(ctx, inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	includeFraming := outPath != ""
	rr, err := seqio.NewAutoRecordReader(in, inPath)
	if err != nil {
		return err
	}
	chunker := seqchunk.NewChunker(rr, seqchunk.DefaultChunkBufSize, includeFraming)

	var w *bufio.Writer
	if includeFraming {
		f, err := file.Create(ctx, outPath)
		if err != nil {
			return err
		}
		defer f.Close(ctx)
		w = bufio.NewWriter(f.Writer(ctx))
		defer w.Flush()
	}

	matchOpts := matcher.Options{
		K:            int(cfg.KmerSize),
		Stranded:     cfg.Stranded,
		QueryReverse: cfg.QueryReverse,
		Positional:   cfg.OutputMappingPositions,
	}
	thresholds := output.Thresholds{Min: cfg.MinThreshold, Max: cfg.MaxThreshold}

	mapFn := func(chunk *seqchunk.Chunk, rec *seqchunk.RecordDescriptor) (uint64, error) {
		seq := chunk.Seq(*rec)
		result, err := matcher.Match(idx, seq, rec.ReadID, matchOpts)
		if err != nil {
			return 0, err
		}
		rec.Result = result
		return 1, nil
	}
	writeFn := func(chunk *seqchunk.Chunk, rec *seqchunk.RecordDescriptor) error {
		if w == nil {
			return nil
		}
		return output.WriteFilteredRecord(w, chunk, rec, thresholds)
	}

	opts := pipeline.Options{Parallelism: int(cfg.Threads)}
	nRecords, err := pipeline.Run(chunker, opts, mapFn, uint64(0), func(a, b uint64) uint64 { return a + b }, writeFn)
	if err != nil {
		return err
	}
	log.Printf("backtoseq: %s: scanned %d records", inPathOrStdin(inPath), nRecords)
	return nil
}

func inPathOrStdin(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

// writeKmerReport writes the reference-k-mer occurrence report to
// cfg.OutKmers, once, after every input has been scanned.
func writeKmerReport(ctx context.Context, cfg config.Config, idx *kmerindex.Index) error {
	f, err := file.Create(ctx, cfg.OutKmers)
	if err != nil {
		return err
	}
	defer f.Close(ctx)
	w := bufio.NewWriter(f.Writer(ctx))
	if err := output.WriteKmerReport(w, idx, cfg.CountedKmerThreshold); err != nil {
		return err
	}
	return w.Flush()
}
