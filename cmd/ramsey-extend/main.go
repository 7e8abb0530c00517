package main

import (
	"flag"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/plan-systems/klog"

	"github.com/ramsey-systems/goramsey/libramsey"
)

// Config mirrors the optional -config TOML file.  Flags override any field
// they name; everything else falls back to the engine defaults.
type Config struct {
	Order       int    `toml:"order"`
	CliqueSize  int    `toml:"clique_size"`
	PrefixWidth int    `toml:"prefix_width"`
	StepLimit   int64  `toml:"step_limit"`
	Workers     int    `toml:"workers"`
	Input       string `toml:"input"`
	Output      string `toml:"output"`
}

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	var (
		cfgPath     = flag.String("config", "", "TOML config file")
		order       = flag.Int("order", 0, "vertex count of the base matrix")
		cliqueSize  = flag.Int("clique", 0, "monochromatic clique size to stay free of")
		prefixWidth = flag.Int("prefix", 0, "filter space width in edges")
		stepLimit   = flag.Int64("steps", -1, "max colorings tested before giving up (0 = unlimited)")
		workers     = flag.Int("workers", 0, "suffix-space partitions to search in parallel")
		input       = flag.String("in", "", "matrix text file to read (default stdin)")
		output      = flag.String("out", "", "file for the extended matrix (default stdout)")
	)
	flag.Parse()

	var cfg Config
	if *cfgPath != "" {
		if _, err := toml.DecodeFile(*cfgPath, &cfg); err != nil {
			klog.Fatalf("could not decode %s: %v", *cfgPath, err)
		}
	}

	// flag overrides -- won't apply unless set
	if *order > 0 {
		cfg.Order = *order
	}
	if *cliqueSize > 0 {
		cfg.CliqueSize = *cliqueSize
	}
	if *prefixWidth > 0 {
		cfg.PrefixWidth = *prefixWidth
	}
	if *stepLimit >= 0 {
		cfg.StepLimit = *stepLimit
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *output != "" {
		cfg.Output = *output
	}

	if cfg.Order < 1 {
		klog.Fatalf("-order (or order in the config file) is required")
	}

	var in io.Reader = os.Stdin
	if cfg.Input != "" {
		file, err := os.Open(cfg.Input)
		if err != nil {
			klog.Fatalf("%v", err)
		}
		defer file.Close()
		in = file
	}

	X := libramsey.NewGraph(nil)
	if err := X.InitFromMatrixText(in, cfg.Order); err != nil {
		klog.Fatalf("reading base matrix: %v", err)
	}

	opts := libramsey.DefaultExtendOpts
	if cfg.CliqueSize > 0 {
		opts.CliqueSize = cfg.CliqueSize
	}
	if cfg.PrefixWidth > 0 {
		opts.PrefixWidth = cfg.PrefixWidth
	}
	if *stepLimit >= 0 || cfg.StepLimit > 0 {
		opts.StepLimit = cfg.StepLimit
	}
	opts.Workers = cfg.Workers
	opts.OnDeepening = func(depth int, row uint64) {
		klog.V(2).Infof("row %#x reached candidate %d", row, depth)
	}

	XL, res, err := X.Extend(opts)
	if err != nil {
		klog.Fatalf("%v", err)
	}

	klog.Infof("K%d-free extension of order %d: %v after %d steps (%d candidates, %d of %d prefixes survived)",
		opts.CliqueSize, cfg.Order, res.Outcome, res.Steps, res.NumCandidates, res.Survivors, res.Survivors+res.Removed)

	if res.Outcome != libramsey.ExtendFound {
		klog.Errorf("no extension: deepest coloring reached candidate %d of %d", res.Deepest, res.NumCandidates)
		klog.Flush()
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			klog.Fatalf("%v", err)
		}
		defer file.Close()
		out = file
	}
	if err := XL.WriteMatrixText(out); err != nil {
		klog.Fatalf("writing extended matrix: %v", err)
	}

	klog.Flush()
}
