// Package main maps CSV feature matrices into random Fourier feature space.
// Coefficients are fitted on the training matrix and transferred by value to
// a second mapper for the test matrix, so both outputs live in the same
// feature space.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fourier/internal/config"
	"github.com/banshee-data/fourier/internal/featureio"
	"github.com/banshee-data/fourier/internal/monitoring"
	"github.com/banshee-data/fourier/internal/pipeline"
	"github.com/banshee-data/fourier/internal/rff"
	"github.com/banshee-data/fourier/internal/version"
)

// Config holds the command-line options.
type Config struct {
	ConfigPath string
	TrainPath  string
	TestPath   string
	OutTrain   string
	OutTest    string
	Header     bool
	Debug      bool

	// Overrides applied on top of the config file; nil means not given.
	KernelWidth *float64
	DimFeature  *int
	Seed        *uint64
	Workers     *int
}

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	cfg := parseFlags()

	if *showVersion {
		fmt.Println(version.String("rff-map"))
		return
	}
	if cfg.TrainPath == "" {
		log.Fatal("-train is required")
	}
	if cfg.Debug {
		rff.SetLogWriters(monitoring.Writer(), monitoring.Writer(), monitoring.Writer())
		pipeline.SetLogWriters(monitoring.Writer(), monitoring.Writer(), monitoring.Writer())
	} else {
		rff.SetLogWriters(monitoring.Writer(), nil, nil)
		pipeline.SetLogWriters(monitoring.Writer(), nil, nil)
	}

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("rff-map: %v", err)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.ConfigPath, "config", "", "Mapper config JSON (defaults built in)")
	flag.StringVar(&cfg.TrainPath, "train", "", "Training CSV to fit and transform")
	flag.StringVar(&cfg.TestPath, "test", "", "Optional test CSV transformed with the training coefficients")
	flag.StringVar(&cfg.OutTrain, "out-train", "train_rff.csv", "Output CSV for transformed training data")
	flag.StringVar(&cfg.OutTest, "out-test", "test_rff.csv", "Output CSV for transformed test data")
	flag.BoolVar(&cfg.Header, "header", true, "Write a z0..zN header row")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable diag and trace logging")
	width := flag.Float64("width", 0, "Kernel width sigma (overrides config)")
	dim := flag.Int("dim", 0, "Feature space dimension D (overrides config)")
	seed := flag.Uint64("seed", 0, "Random seed (overrides config)")
	workers := flag.Int("workers", 0, "Transform goroutines, 0 = one per CPU (overrides config)")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.KernelWidth = width
		case "dim":
			cfg.DimFeature = dim
		case "seed":
			cfg.Seed = seed
		case "workers":
			cfg.Workers = workers
		}
	})
	return cfg
}

// mapperConfig loads the config file, if any, and applies flag overrides.
func mapperConfig(cfg Config) (*config.MapperConfig, error) {
	mc := config.EmptyMapperConfig()
	if cfg.ConfigPath != "" {
		loaded, err := config.LoadMapperConfig(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		mc = loaded
	}
	if cfg.KernelWidth != nil {
		mc.KernelWidth = cfg.KernelWidth
	}
	if cfg.DimFeature != nil {
		mc.DimFeatureSpace = cfg.DimFeature
	}
	if cfg.Seed != nil {
		mc.Seed = cfg.Seed
	}
	if cfg.Workers != nil {
		mc.Workers = cfg.Workers
	}
	if err := mc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return mc, nil
}

func run(cfg Config, stdout io.Writer) error {
	mc, err := mapperConfig(cfg)
	if err != nil {
		return err
	}

	trainMapper, err := rff.NewMapperFromConfig(mc)
	if err != nil {
		return err
	}
	trainX, err := readMatrix(cfg.TrainPath)
	if err != nil {
		return err
	}
	if err := transform(trainMapper, trainX, cfg.OutTrain, cfg.Header); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	r, _ := trainX.Dims()
	fmt.Fprintf(stdout, "train: %d vectors -> %s\n", r, cfg.OutTrain)

	if cfg.TestPath == "" {
		return nil
	}

	coeffs, err := trainMapper.Coefficients()
	if err != nil {
		return err
	}
	testX, err := readMatrix(cfg.TestPath)
	if err != nil {
		return err
	}
	if _, cols := testX.Dims(); cols != coeffs.DimInputSpace {
		return fmt.Errorf("test data has %d columns, training data has %d", cols, coeffs.DimInputSpace)
	}

	testMapper := rff.NewMapper(nil)
	if err := testMapper.SetCoefficients(coeffs); err != nil {
		return err
	}
	testMapper.SetWorkers(mc.GetWorkers())
	if err := transform(testMapper, testX, cfg.OutTest, cfg.Header); err != nil {
		return fmt.Errorf("test: %w", err)
	}
	r, _ = testX.Dims()
	fmt.Fprintf(stdout, "test: %d vectors -> %s\n", r, cfg.OutTest)
	return nil
}

func transform(m *rff.Mapper, x *mat.Dense, outPath string, header bool) error {
	p, err := pipeline.New(m)
	if err != nil {
		return err
	}
	defer p.Close()

	f := rff.NewDenseFeatures(x)
	if err := p.Run(f); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	var names []string
	if header {
		names = featureio.FeatureHeader("z", f.Dim())
	}
	if err := featureio.WriteCSV(out, f.Dense(), names); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func readMatrix(path string) (*mat.Dense, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	m, err := featureio.ReadCSV(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
