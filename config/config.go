// Package config defines the immutable run configuration assembled once
// from CLI flags and passed by value to the pipeline.
package config

import "github.com/pkg/errors"

// Config collects every CLI-configurable knob. It carries no methods
// beyond Validate; all behavior lives in the components that consume it.
type Config struct {
	InKmers     string
	InSequences string
	InFilelist  string

	OutSequences string
	OutFilelist  string
	OutKmers     string

	CountedKmerThreshold   uint64
	OutputKmerPositions    bool
	OutputMappingPositions bool

	KmerSize     uint
	MinThreshold float64
	MaxThreshold float64

	Stranded        bool
	QueryReverse    bool
	NoLowComplexity bool

	Threads uint
	Verbose bool
}

// Validate checks cross-flag consistency and returns non-fatal warnings
// plus a fatal error, if any. A non-nil error means the run must not start.
func (c Config) Validate() (warnings []string, err error) {
	if c.KmerSize == 0 || c.KmerSize > 255 {
		return nil, errors.Errorf("kmer-size must be in [1,255], got %d", c.KmerSize)
	}
	if c.OutSequences == "" && c.OutFilelist == "" && c.OutKmers == "" {
		return nil, errors.New("at least one of --out-sequences, --out-filelist, --out-kmers must be set")
	}
	if c.MinThreshold > c.MaxThreshold {
		return nil, errors.Errorf("min-threshold (%v) must be <= max-threshold (%v)", c.MinThreshold, c.MaxThreshold)
	}
	if c.InFilelist != "" && c.InSequences != "" {
		return nil, errors.New("--in-filelist and --in-sequences are mutually exclusive")
	}
	if c.InFilelist != "" && c.OutFilelist == "" {
		return nil, errors.New("--in-filelist requires --out-filelist")
	}
	if c.OutputKmerPositions && c.InFilelist != "" {
		return nil, errors.New("--output-kmer-positions is incompatible with --in-filelist")
	}
	if c.QueryReverse && !c.Stranded {
		warnings = append(warnings, "--query-reverse without --stranded is a no-op: canonical folding hides the difference")
	}
	return warnings, nil
}
