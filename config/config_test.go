package config

import "testing"

func base() Config {
	return Config{
		InKmers:      "ref.fa",
		OutSequences: "out.fa",
		KmerSize:     31,
		MaxThreshold: 100,
	}
}

func TestValidateOK(t *testing.T) {
	warnings, err := base().Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestValidateRequiresAnOutput(t *testing.T) {
	c := base()
	c.OutSequences = ""
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error when no output is configured")
	}
}

func TestValidateThresholdOrder(t *testing.T) {
	c := base()
	c.MinThreshold = 60
	c.MaxThreshold = 50
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error for min > max")
	}
}

func TestValidateFilelistMutualExclusion(t *testing.T) {
	c := base()
	c.InFilelist = "in.list"
	c.InSequences = "seq.fa"
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error for in-filelist + in-sequences")
	}
}

func TestValidateFilelistRequiresOutFilelist(t *testing.T) {
	c := base()
	c.InSequences = ""
	c.InFilelist = "in.list"
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error: --in-filelist requires --out-filelist")
	}
}

func TestValidatePositionsIncompatibleWithFilelist(t *testing.T) {
	c := base()
	c.InSequences = ""
	c.InFilelist = "in.list"
	c.OutFilelist = "out.list"
	c.OutputKmerPositions = true
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error: --output-kmer-positions incompatible with --in-filelist")
	}
}

func TestValidateQueryReverseWithoutStrandedWarns(t *testing.T) {
	c := base()
	c.QueryReverse = true
	warnings, err := c.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestValidateKmerSizeBounds(t *testing.T) {
	c := base()
	c.KmerSize = 0
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error for kmer-size 0")
	}
	c.KmerSize = 256
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error for kmer-size > 255")
	}
}
