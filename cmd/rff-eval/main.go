// Package main reports how the random Fourier feature approximation of the
// Gaussian kernel improves with the feature dimension, on synthetic data or
// a CSV sample.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/fourier/internal/evaluation"
	"github.com/banshee-data/fourier/internal/featureio"
	"github.com/banshee-data/fourier/internal/monitoring"
	"github.com/banshee-data/fourier/internal/rff"
	"github.com/banshee-data/fourier/internal/version"
)

// Config holds the command-line options.
type Config struct {
	InputPath string
	Vectors   int
	InputDim  int
	Sigma     float64
	Dims      []int
	Seed      uint64
	Workers   int
	PNGPath   string
	HTMLPath  string
	JSONPath  string
}

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	cfg, err := parseFlags()
	if err != nil {
		log.Fatalf("rff-eval: %v", err)
	}
	if *showVersion {
		fmt.Println(version.String("rff-eval"))
		return
	}
	rff.SetLogWriters(monitoring.Writer(), nil, nil)

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("rff-eval: %v", err)
	}
}

func parseFlags() (Config, error) {
	var cfg Config
	flag.StringVar(&cfg.InputPath, "input", "", "CSV sample to evaluate on (default: synthetic Gaussian data)")
	flag.IntVar(&cfg.Vectors, "n", 200, "Synthetic vector count")
	flag.IntVar(&cfg.InputDim, "d", 8, "Synthetic input dimension")
	flag.Float64Var(&cfg.Sigma, "width", 1.0, "Kernel width sigma")
	dims := flag.String("dims", "16,64,256,1024,4096", "Comma-separated feature dimensions to evaluate")
	flag.Uint64Var(&cfg.Seed, "seed", 1, "Random seed for data and coefficients")
	flag.IntVar(&cfg.Workers, "workers", 0, "Transform goroutines, 0 = one per CPU")
	flag.StringVar(&cfg.PNGPath, "png", "", "Write a PNG plot to this path")
	flag.StringVar(&cfg.HTMLPath, "html", "", "Write an HTML chart to this path")
	flag.StringVar(&cfg.JSONPath, "json", "", "Write sweep results as JSON to this path")
	flag.Parse()

	parsed, err := parseDims(*dims)
	if err != nil {
		return cfg, err
	}
	cfg.Dims = parsed
	return cfg, nil
}

func parseDims(s string) ([]int, error) {
	var dims []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q: %w", part, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("dimension must be positive, got %d", d)
		}
		dims = append(dims, d)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("no feature dimensions given")
	}
	return dims, nil
}

// syntheticData draws n x d entries from N(0, 1).
func syntheticData(n, d int, seed uint64) *mat.Dense {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, ^seed)}
	data := make([]float64, n*d)
	for i := range data {
		data[i] = normal.Rand()
	}
	return mat.NewDense(n, d, data)
}

func run(cfg Config, stdout io.Writer) error {
	var x *mat.Dense
	if cfg.InputPath != "" {
		in, err := os.Open(cfg.InputPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		x, err = featureio.ReadCSV(in)
		in.Close()
		if err != nil {
			return err
		}
	} else {
		if cfg.Vectors < 2 || cfg.InputDim < 1 {
			return fmt.Errorf("need -n >= 2 and -d >= 1, got n=%d d=%d", cfg.Vectors, cfg.InputDim)
		}
		x = syntheticData(cfg.Vectors, cfg.InputDim, cfg.Seed)
	}

	points, err := evaluation.Sweep(x, cfg.Sigma, cfg.Dims, cfg.Seed, cfg.Workers)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "D\tpairs\tmean\tstd\tmax\trmse")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%d\t%.5f\t%.5f\t%.5f\t%.5f\n", p.DimFeatureSpace, p.Pairs, p.MeanAbsError, p.StdAbsError, p.MaxAbsError, p.RMSE)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if cfg.PNGPath != "" {
		if err := evaluation.SavePlot(points, cfg.PNGPath); err != nil {
			return err
		}
		monitoring.Logf("[rff-eval] wrote %s", cfg.PNGPath)
	}
	if cfg.HTMLPath != "" {
		if err := writeTo(cfg.HTMLPath, func(w io.Writer) error { return evaluation.RenderChart(points, w) }); err != nil {
			return err
		}
		monitoring.Logf("[rff-eval] wrote %s", cfg.HTMLPath)
	}
	if cfg.JSONPath != "" {
		if err := writeTo(cfg.JSONPath, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(points)
		}); err != nil {
			return err
		}
		monitoring.Logf("[rff-eval] wrote %s", cfg.JSONPath)
	}
	return nil
}

func writeTo(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
