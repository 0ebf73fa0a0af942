package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/fourier/internal/monitoring"
)

// DefaultConfigPath is the path to the canonical mapper defaults file.
const DefaultConfigPath = "config/rff.defaults.json"

// MapperConfig holds the parameters of a random Fourier feature mapper.
// Nil fields fall back to the defaults returned by the Get* methods, so
// partial files are safe.
type MapperConfig struct {
	KernelWidth     *float64 `json:"kernel_width,omitempty"`
	DimFeatureSpace *int     `json:"dim_feature_space,omitempty"`
	// DimInputSpace of 0 means "take it from the data".
	DimInputSpace *int `json:"dim_input_space,omitempty"`
	// Seed makes coefficient sampling reproducible; absent means clock-seeded.
	Seed    *uint64 `json:"seed,omitempty"`
	Workers *int    `json:"workers,omitempty"`
}

// EmptyMapperConfig returns a MapperConfig with all fields set to nil.
func EmptyMapperConfig() *MapperConfig {
	return &MapperConfig{}
}

// LoadMapperConfig loads a MapperConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadMapperConfig(path string) (*MapperConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyMapperConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	monitoring.Logf("[config] loaded %s: kernel_width=%g dim_feature_space=%d", cleanPath, cfg.GetKernelWidth(), cfg.GetDimFeatureSpace())
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *MapperConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadMapperConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the set values are usable.
func (c *MapperConfig) Validate() error {
	if c.KernelWidth != nil {
		if w := *c.KernelWidth; !(w > 0) || math.IsInf(w, 1) {
			return fmt.Errorf("kernel_width must be positive and finite, got %g", w)
		}
	}
	if c.DimFeatureSpace != nil && *c.DimFeatureSpace <= 0 {
		return fmt.Errorf("dim_feature_space must be positive, got %d", *c.DimFeatureSpace)
	}
	if c.DimInputSpace != nil && *c.DimInputSpace < 0 {
		return fmt.Errorf("dim_input_space must be non-negative, got %d", *c.DimInputSpace)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

// GetKernelWidth returns the kernel_width value or the default.
func (c *MapperConfig) GetKernelWidth() float64 {
	if c.KernelWidth == nil {
		return 1.0
	}
	return *c.KernelWidth
}

// GetDimFeatureSpace returns the dim_feature_space value or the default.
func (c *MapperConfig) GetDimFeatureSpace() int {
	if c.DimFeatureSpace == nil {
		return 256
	}
	return *c.DimFeatureSpace
}

// GetDimInputSpace returns the dim_input_space value, 0 when unset.
func (c *MapperConfig) GetDimInputSpace() int {
	if c.DimInputSpace == nil {
		return 0
	}
	return *c.DimInputSpace
}

// GetSeed returns the seed and whether one was configured.
func (c *MapperConfig) GetSeed() (uint64, bool) {
	if c.Seed == nil {
		return 0, false
	}
	return *c.Seed, true
}

// GetWorkers returns the workers value; 0 means one per CPU.
func (c *MapperConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}
