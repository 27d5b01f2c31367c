package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/stac-query/internal/config"
)

func addQueryFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to a query file (YAML format)")
	flags.StringSlice("asset", nil, "Asset names to try, in order; glob patterns are allowed (default [data])")
	flags.StringSlice("id", nil, "Regular expressions an item id must match")
	flags.StringSlice("collection", nil, "Regular expressions an item collection must match")
	flags.StringArray("date", nil, "Date range as start,end (RFC 3339 or YYYY-MM-DD); repeatable")
	flags.String("bounds", "", "Bounds as minx,miny,maxx,maxy or minx,miny,minz,maxx,maxy,maxz")
	flags.String("srs", "", "Spatial reference of --bounds (EPSG:4326 or EPSG:3857)")
	flags.StringArray("property", nil, "Property constraint as key=value; value is parsed as YAML; repeatable")
	flags.Int("max-pages", 0, "Maximum number of pages visited per root (0 means unbounded)")
	flags.String("timeout", "", "Per-request timeout (e.g. 30s)")
	flags.Int("concurrency", 0, "Number of roots queried at once")
	flags.Float64("head-rate", 0, "Maximum asset HEAD requests per second (0 means unlimited)")
	flags.Bool("validate-items", false, "Validate accepted items against the STAC item schema")
}

// newFlagViper binds the flags of cmd to a viper instance that also reads
// STAC_QUERY_* environment variables, e.g. STAC_QUERY_MAX_PAGES.
func newFlagViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

// loadQueryConfig reads the query file, if any, applies flag and environment
// overrides and validates the result. Positional args replace the roots of the file.
func loadQueryConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	v, err := newFlagViper(cmd)
	if err != nil {
		return nil, err
	}

	cfg := config.NewDefaultConfig()
	if path := v.GetString("config"); path != "" {
		cfg, err = config.LoadConfig(config.WithConfigPath(path))
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	if len(args) > 0 {
		cfg.Roots = args
	}
	if err := applyOverrides(v, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Filters.AssetNames) == 0 {
		cfg.Filters.AssetNames = []string{config.DefaultAssetName}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyOverrides(v *viper.Viper, cfg *config.Config) error {
	filters := cfg.Filters
	fetch := cfg.Fetch

	if v.IsSet("asset") {
		filters.AssetNames = v.GetStringSlice("asset")
	}
	if v.IsSet("id") {
		filters.IDs = v.GetStringSlice("id")
	}
	if v.IsSet("collection") {
		filters.Collections = v.GetStringSlice("collection")
	}
	if v.IsSet("date") {
		dates, err := parseDates(v.GetStringSlice("date"))
		if err != nil {
			return err
		}
		filters.Dates = dates
	}
	if v.IsSet("bounds") {
		bounds, err := parseBounds(v.GetString("bounds"))
		if err != nil {
			return err
		}
		filters.Bounds = bounds
	}
	if v.IsSet("srs") {
		filters.SRS = v.GetString("srs")
	}
	if v.IsSet("property") {
		props, err := parseProperties(v.GetStringSlice("property"))
		if err != nil {
			return err
		}
		filters.Properties = props
	}

	if v.IsSet("max-pages") {
		fetch.MaxPages = v.GetInt("max-pages")
	}
	if v.IsSet("timeout") {
		fetch.Timeout = v.GetString("timeout")
	}
	if v.IsSet("concurrency") {
		fetch.Concurrency = v.GetInt("concurrency")
	}
	if v.IsSet("head-rate") {
		fetch.HeadRate = v.GetFloat64("head-rate")
	}

	if v.GetBool("validate-items") {
		if cfg.Validation == nil {
			cfg.Validation = &config.ValidationConfig{}
		}
		cfg.Validation.Enabled = true
	}
	return nil
}

func parseDates(values []string) ([][]string, error) {
	dates := make([][]string, 0, len(values))
	for _, value := range values {
		start, end, ok := strings.Cut(value, ",")
		if !ok {
			return nil, fmt.Errorf("--date %q: expected start,end", value)
		}
		dates = append(dates, []string{strings.TrimSpace(start), strings.TrimSpace(end)})
	}
	return dates, nil
}

func parseBounds(value string) ([]float64, error) {
	parts := strings.Split(value, ",")
	bounds := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("--bounds %q: %w", value, err)
		}
		bounds = append(bounds, f)
	}
	return bounds, nil
}

// parseProperties turns key=value pairs into property constraints. Values are
// YAML so that "pc:count=[10, 20]" yields a list of integers.
func parseProperties(values []string) (map[string]any, error) {
	props := make(map[string]any, len(values))
	for _, pair := range values {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--property %q: expected key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("--property %q: %w", pair, err)
		}
		props[key] = value
	}
	return props, nil
}
