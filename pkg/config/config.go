// Package config handles loading SafeTable configuration: the YAML policy
// file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/scoring"
	"github.com/safetable/safetable/pkg/source"
)

// Registry backends.
const (
	BackendAPI      = "api"
	BackendPostgres = "postgres"
	BackendDataset  = "dataset"
)

// Provider names.
const (
	ProviderKakao  = "kakao"
	ProviderGoogle = "google"
)

// Config is the top-level policy configuration.
type Config struct {
	Scoring   ScoringConfig   `yaml:"scoring"`
	Brands    BrandsConfig    `yaml:"brands"`
	Cache     CacheConfig     `yaml:"cache"`
	Recommend RecommendConfig `yaml:"recommend"`
	Registry  RegistryConfig  `yaml:"registry"`
	Providers []string        `yaml:"providers"` // lookup order
}

// ScoringConfig selects the scoring profile.
type ScoringConfig struct {
	Profile string `yaml:"profile"` // six_indicator or four_indicator
}

// BrandsConfig controls the franchise brand table.
type BrandsConfig struct {
	List  []string `yaml:"list"`  // replaces the compiled-in list when set
	Extra []string `yaml:"extra"` // appended to the list
}

// CacheConfig controls memoization.
type CacheConfig struct {
	Capacity   int           `yaml:"capacity"`
	Registry   time.Duration `yaml:"registry_ttl"`
	Violations time.Duration `yaml:"violations_ttl"`
	Places     time.Duration `yaml:"places_ttl"`
	Area       time.Duration `yaml:"area_ttl"`
}

// RecommendConfig bounds recommendation fan-out.
type RecommendConfig struct {
	PoolSize    int `yaml:"pool_size"`
	Concurrency int `yaml:"concurrency"`
	// AreaTooMany is the provider hit count above which an area is
	// reported as too broad.
	AreaTooMany int `yaml:"area_too_many"`
}

// RegistryConfig selects where registry records come from.
type RegistryConfig struct {
	Backend string `yaml:"backend"` // api, postgres or dataset
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	ttl := source.DefaultTTLs()
	return &Config{
		Scoring: ScoringConfig{Profile: scoring.ProfileSixIndicator},
		Cache: CacheConfig{
			Capacity:   1000,
			Registry:   ttl.Registry,
			Violations: ttl.Violations,
			Places:     ttl.Places,
			Area:       ttl.Area,
		},
		Recommend: RecommendConfig{
			PoolSize:    15,
			Concurrency: 4,
			AreaTooMany: 300,
		},
		Registry:  RegistryConfig{Backend: BackendAPI},
		Providers: []string{ProviderKakao, ProviderGoogle},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := scoring.ProfileByName(c.Scoring.Profile); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Registry.Backend {
	case BackendAPI, BackendPostgres, BackendDataset:
	default:
		return fmt.Errorf("config: unknown registry backend %q", c.Registry.Backend)
	}
	for _, p := range c.Providers {
		if p != ProviderKakao && p != ProviderGoogle {
			return fmt.Errorf("config: unknown provider %q", p)
		}
	}
	return nil
}

// BrandTable builds the franchise brand table.
func (c *Config) BrandTable() *normalize.BrandTable {
	list := normalize.DefaultBrands
	if len(c.Brands.List) > 0 {
		list = c.Brands.List
	}
	all := make([]string, 0, len(list)+len(c.Brands.Extra))
	all = append(all, list...)
	all = append(all, c.Brands.Extra...)
	return normalize.NewBrandTable(all)
}

// TTLs returns the cache lifetimes, defaulting unset ones.
func (c *Config) TTLs() source.TTLs {
	ttl := source.DefaultTTLs()
	if c.Cache.Registry > 0 {
		ttl.Registry = c.Cache.Registry
	}
	if c.Cache.Violations > 0 {
		ttl.Violations = c.Cache.Violations
	}
	if c.Cache.Places > 0 {
		ttl.Places = c.Cache.Places
	}
	if c.Cache.Area > 0 {
		ttl.Area = c.Cache.Area
	}
	return ttl
}

// FindConfigFile looks for .safetable/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".safetable", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the local cache directory, ~/.cache/safetable.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "safetable")
}

// DatasetDir returns the default local dataset directory.
func DatasetDir() string {
	return filepath.Join(CacheDir(), "datasets")
}
