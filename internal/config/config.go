// Package config provides configuration loading and validation for catalog queries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/stac-query/internal/geometry"
	"github.com/stacklok/stac-query/internal/telemetry"
)

// EnvPrefix is the prefix of environment variables read by the CLI
const EnvPrefix = "STAC_QUERY"

const (
	// DefaultFetchTimeout is the per-request timeout when fetch.timeout is unset
	DefaultFetchTimeout = 30 * time.Second

	// DefaultConcurrency is the number of root catalogs queried at once
	DefaultConcurrency = 4

	// DefaultAssetName is the asset tried when a query names none
	DefaultAssetName = "data"
)

// DefaultItemSchemaURL is the item schema used when validation is enabled without explicit URLs
const DefaultItemSchemaURL = "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents a catalog query
type Config struct {
	// Roots are the locations (URLs or local paths) of the root catalog pages to query
	Roots []string `yaml:"roots,omitempty"`

	// Filters holds the item constraints shared by every page of the query
	Filters *FilterConfig `yaml:"filters,omitempty"`

	// ReaderArgs maps a reader driver name to the options passed to that reader
	ReaderArgs map[string]map[string]any `yaml:"readerArgs,omitempty"`

	// Drivers extends driver resolution
	Drivers *DriverConfig `yaml:"drivers,omitempty"`

	// Validation controls optional JSON Schema validation of accepted items
	Validation *ValidationConfig `yaml:"validation,omitempty"`

	// Fetch controls how documents are retrieved
	Fetch *FetchConfig `yaml:"fetch,omitempty"`

	// Telemetry configures OpenTelemetry tracing and metrics
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// FilterConfig defines the raw item constraints
type FilterConfig struct {
	// AssetNames are asset keys tried in order; glob patterns are allowed
	AssetNames []string `yaml:"assetNames,omitempty"`

	// IDs are regular expressions an item id must fully match (any of)
	IDs []string `yaml:"ids,omitempty"`

	// Collections are regular expressions the item collection must fully match (any of)
	Collections []string `yaml:"collections,omitempty"`

	// Dates are [start, end] pairs, RFC 3339 timestamps or YYYY-MM-DD dates
	Dates [][]string `yaml:"dates,omitempty"`

	// Properties maps a property name to a desired scalar or a list of scalars
	Properties map[string]any `yaml:"properties,omitempty"`

	// Bounds is [minx, miny, maxx, maxy] or [minx, miny, minz, maxx, maxy, maxz]
	Bounds []float64 `yaml:"bounds,omitempty"`

	// SRS is the spatial reference of Bounds, EPSG:4326 when empty
	SRS string `yaml:"srs,omitempty"`
}

// DriverConfig defines additions to the content-type driver table
type DriverConfig struct {
	// ContentTypes maps a media type to a reader driver
	ContentTypes map[string]string `yaml:"contentTypes,omitempty"`
}

// ValidationConfig defines optional schema validation of items
type ValidationConfig struct {
	Enabled    bool       `yaml:"enabled"`
	SchemaURLs SchemaURLs `yaml:"schemaUrls,omitempty"`
}

// SchemaURLs holds the root JSON Schema locations used for validation. Only
// items are validated; catalogs and collections are traversed as pages.
type SchemaURLs struct {
	Item string `yaml:"item,omitempty"`
}

// FetchConfig defines document retrieval settings
type FetchConfig struct {
	// Timeout is the per-request timeout (e.g. "30s")
	Timeout string `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxPages bounds the number of pages visited per root; 0 means unbounded
	MaxPages int `yaml:"maxPages,omitempty"`

	// HeadRate limits asset HEAD requests per second; 0 means unlimited
	HeadRate float64 `yaml:"headRate,omitempty"`

	// Concurrency is the number of roots queried at once
	Concurrency int `yaml:"concurrency,omitempty"`
}

// NewDefaultConfig returns an empty query configuration
func NewDefaultConfig() *Config {
	return &Config{
		Filters: &FilterConfig{},
		Fetch:   &FetchConfig{},
	}
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := NewDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if config.Filters == nil {
		config.Filters = &FilterConfig{}
	}
	if config.Fetch == nil {
		config.Fetch = &FetchConfig{}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// GetTimeout returns the fetch timeout, using DefaultFetchTimeout if not specified
func (c *FetchConfig) GetTimeout() time.Duration {
	if c == nil || c.Timeout == "" {
		return DefaultFetchTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultFetchTimeout
	}
	return d
}

// GetConcurrency returns the number of roots queried at once
func (c *FetchConfig) GetConcurrency() int {
	if c == nil || c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

// IsEnabled reports whether schema validation is turned on
func (c *ValidationConfig) IsEnabled() bool {
	return c != nil && c.Enabled
}

// GetItemSchemaURL returns the item schema location, using the STAC 1.0.0 schema if not specified
func (c *ValidationConfig) GetItemSchemaURL() string {
	if c == nil || c.SchemaURLs.Item == "" {
		return DefaultItemSchemaURL
	}
	return c.SchemaURLs.Item
}

// Validate performs validation on the configuration. Roots are not required here
// because they may be supplied on the command line.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	for i, root := range c.Roots {
		if root == "" {
			errs = append(errs, fmt.Errorf("roots[%d]: location cannot be empty", i))
		}
	}

	if err := c.Filters.validate(); err != nil {
		errs = append(errs, fmt.Errorf("filters: %w", err))
	}

	for driver := range c.ReaderArgs {
		if driver == "" {
			errs = append(errs, fmt.Errorf("readerArgs: driver name cannot be empty"))
		}
	}

	if c.Drivers != nil {
		for mediaType, driver := range c.Drivers.ContentTypes {
			if mediaType == "" || driver == "" {
				errs = append(errs, fmt.Errorf("drivers.contentTypes: %q -> %q: media type and driver are required", mediaType, driver))
			}
		}
	}

	if err := c.Fetch.validate(); err != nil {
		errs = append(errs, fmt.Errorf("fetch: %w", err))
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func (f *FilterConfig) validate() error {
	if f == nil {
		return nil
	}

	var errs []error

	for i, name := range f.AssetNames {
		if name == "" {
			errs = append(errs, fmt.Errorf("assetNames[%d]: name cannot be empty", i))
		}
	}

	for i, expr := range f.IDs {
		if _, err := regexp.Compile(expr); err != nil {
			errs = append(errs, fmt.Errorf("ids[%d]: %w", i, err))
		}
	}
	for i, expr := range f.Collections {
		if _, err := regexp.Compile(expr); err != nil {
			errs = append(errs, fmt.Errorf("collections[%d]: %w", i, err))
		}
	}

	for i, pair := range f.Dates {
		if len(pair) != 2 {
			errs = append(errs, fmt.Errorf("dates[%d]: expected [start, end], got %d values", i, len(pair)))
			continue
		}
		if _, _, err := ParseDateRange(pair[0], pair[1]); err != nil {
			errs = append(errs, fmt.Errorf("dates[%d]: %w", i, err))
		}
	}

	switch len(f.Bounds) {
	case 0:
	case 4:
		if f.Bounds[0] > f.Bounds[2] || f.Bounds[1] > f.Bounds[3] {
			errs = append(errs, fmt.Errorf("bounds: minimum exceeds maximum in %v", f.Bounds))
		}
	case 6:
		if f.Bounds[0] > f.Bounds[3] || f.Bounds[1] > f.Bounds[4] || f.Bounds[2] > f.Bounds[5] {
			errs = append(errs, fmt.Errorf("bounds: minimum exceeds maximum in %v", f.Bounds))
		}
	default:
		errs = append(errs, fmt.Errorf("bounds: expected 4 or 6 numbers, got %d", len(f.Bounds)))
	}

	if f.SRS != "" {
		if len(f.Bounds) == 0 {
			errs = append(errs, fmt.Errorf("srs: %q is set but no bounds are given", f.SRS))
		}
		if !geometry.IsSupportedSRS(f.SRS) {
			errs = append(errs, fmt.Errorf("srs: unsupported spatial reference %q", f.SRS))
		}
	}

	return errors.Join(errs...)
}

func (f *FetchConfig) validate() error {
	if f == nil {
		return nil
	}

	var errs []error

	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("timeout must be a valid duration (e.g., '30s', '2m'): %w", err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("timeout must be positive, got %s", f.Timeout))
		}
	}
	if f.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("maxPages cannot be negative, got %d", f.MaxPages))
	}
	if f.HeadRate < 0 {
		errs = append(errs, fmt.Errorf("headRate cannot be negative, got %v", f.HeadRate))
	}
	if f.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency cannot be negative, got %d", f.Concurrency))
	}

	return errors.Join(errs...)
}
