/*
backtoseq screens FASTA/FASTQ sequence streams against a reference set of
k-mers: for every query record it reports how many of its k-mers occur in
the reference, optionally emits the filtered records annotated with
per-record statistics, and optionally writes a reference-k-mer occurrence
report.
*/
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/backtoseq/config"
)

var (
	inKmers     = flag.String("in-kmers", "", "FASTA of reference k-mers (required)")
	inSequences = flag.String("in-sequences", "", "FASTA/FASTQ (gz/zst autodetect) of queries; \"\" reads stdin")
	inFilelist  = flag.String("in-filelist", "", "Newline-delimited list of input paths; mutually exclusive with -in-sequences")

	outSequences = flag.String("out-sequences", "", "Output filtered records")
	outFilelist  = flag.String("out-filelist", "", "Required iff -in-filelist is set; same line count")
	outKmers     = flag.String("out-kmers", "", "Reference-k-mer report")

	countedKmerThreshold = flag.Uint64("counted-kmer-threshold", 0, "Minimum accumulator count to include in the k-mer report")
	outputKmerPositions  = flag.Bool("output-kmer-positions", false, "Use the positional-log accumulator; incompatible with -in-filelist")
	outputMappingPos     = flag.Bool("output-mapping-positions", false, "Use positional per-record output")

	kmerSize = flag.Uint("kmer-size", 31, "K")
	minPct   = flag.Float64("min-threshold", 0.0, "Percent, exclusive lower bound")
	maxPct   = flag.Float64("max-threshold", 100.0, "Percent, inclusive upper bound")

	stranded        = flag.Bool("stranded", false, "Disable canonical folding")
	queryReverse    = flag.Bool("query-reverse", false, "Reverse-complement each query in place before scanning; requires -stranded")
	noLowComplexity = flag.Bool("no-low-complexity", false, "Drop reference k-mers with Shannon entropy < 1.0 bits")

	threads = flag.Uint("threads", 0, "0 selects the logical core count")
	verbose = flag.Bool("verbose", false, "Enable debug-level logging")
)

func init() {
	flag.UintVar(kmerSize, "k", 31, "shorthand for -kmer-size")
	flag.Float64Var(minPct, "m", 0.0, "shorthand for -min-threshold")
	flag.UintVar(threads, "t", 0, "shorthand for -threads")
}

func usage() {
	fmt.Printf("Usage: %s -in-kmers ref.fa [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func buildConfig() config.Config {
	return config.Config{
		InKmers:     *inKmers,
		InSequences: *inSequences,
		InFilelist:  *inFilelist,

		OutSequences: *outSequences,
		OutFilelist:  *outFilelist,
		OutKmers:     *outKmers,

		CountedKmerThreshold:   *countedKmerThreshold,
		OutputKmerPositions:    *outputKmerPositions,
		OutputMappingPositions: *outputMappingPos,

		KmerSize:     *kmerSize,
		MinThreshold: *minPct,
		MaxThreshold: *maxPct,

		Stranded:        *stranded,
		QueryReverse:    *queryReverse,
		NoLowComplexity: *noLowComplexity,

		Threads: *threads,
		Verbose: *verbose,
	}
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *inKmers == "" {
		log.Fatalf("-in-kmers is required")
	}
	cfg := buildConfig()
	warnings, err := cfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if cfg.Verbose {
		log.Debug.Printf("backtoseq: verbose logging enabled")
	}

	ctx := vcontext.Background()
	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

// run builds the reference index once, then drives either a single
// in/out pair or the file-list loop: a list of input paths mapped
// one-to-one onto a list of output paths, each pair scanned independently.
func run(ctx context.Context, cfg config.Config) error {
	idx, err := buildIndex(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.InFilelist != "" {
		ins, err := readLines(ctx, cfg.InFilelist)
		if err != nil {
			return err
		}
		outs, err := readLines(ctx, cfg.OutFilelist)
		if err != nil {
			return err
		}
		if len(ins) != len(outs) {
			return fmt.Errorf("backtoseq: -in-filelist has %d lines but -out-filelist has %d", len(ins), len(outs))
		}
		for i := range ins {
			log.Printf("backtoseq: processing %s -> %s", ins[i], outs[i])
			if err := runOne(ctx, cfg, idx, ins[i], outs[i]); err != nil {
				return err
			}
		}
	} else {
		if err := runOne(ctx, cfg, idx, cfg.InSequences, cfg.OutSequences); err != nil {
			return err
		}
	}

	if cfg.OutKmers != "" {
		if err := writeKmerReport(ctx, cfg, idx); err != nil {
			return err
		}
	}
	return nil
}

func readLines(ctx context.Context, path string) ([]string, error) {
	f, err := openAutoOrStdin(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	var lines []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
