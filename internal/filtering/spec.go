package filtering

import (
	"fmt"
	"regexp"
	"slices"
	"sort"

	"github.com/stacklok/stac-query/internal/config"
	"github.com/stacklok/stac-query/internal/stacerr"
)

// Spec is the compiled, immutable form of the item constraints of one query
type Spec struct {
	assets      []assetPattern
	ids         []*regexp.Regexp
	collections []*regexp.Regexp
	dates       []DateRange
	properties  []PropertyFilter
	bounds      *Bounds
}

// NewSpec compiles cfg. Errors are stacerr.ValidationError values.
// A nil cfg yields a Spec without constraints and without asset names.
func NewSpec(cfg *config.FilterConfig) (*Spec, error) {
	spec := &Spec{}
	if cfg == nil {
		return spec, nil
	}

	var err error
	if spec.assets, err = compileAssetPatterns(cfg.AssetNames); err != nil {
		return nil, err
	}
	if spec.ids, err = compilePatterns("ids", cfg.IDs); err != nil {
		return nil, err
	}
	if spec.collections, err = compilePatterns("collections", cfg.Collections); err != nil {
		return nil, err
	}

	for i, pair := range cfg.Dates {
		if len(pair) != 2 {
			return nil, stacerr.NewValidationError("dates[%d]: expected [start, end], got %d values", i, len(pair))
		}
		r, err := NewDateRange(pair[0], pair[1])
		if err != nil {
			return nil, stacerr.WrapValidationError(err, fmt.Sprintf("dates[%d]", i))
		}
		spec.dates = append(spec.dates, r)
	}

	keys := make([]string, 0, len(cfg.Properties))
	for key := range cfg.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		pf, err := NewPropertyFilter(key, cfg.Properties[key])
		if err != nil {
			return nil, stacerr.WrapValidationError(err, fmt.Sprintf("properties[%q]", key))
		}
		spec.properties = append(spec.properties, pf)
	}

	if len(cfg.Bounds) > 0 {
		b, err := NewBounds(cfg.Bounds, cfg.SRS)
		if err != nil {
			return nil, stacerr.WrapValidationError(err, "bounds")
		}
		spec.bounds = b
	}

	return spec, nil
}

// AssetNames returns the configured asset names in preference order
func (s *Spec) AssetNames() []string {
	names := make([]string, 0, len(s.assets))
	for _, a := range s.assets {
		names = append(names, a.name)
	}
	return names
}

// HasDates reports whether a temporal constraint is set
func (s *Spec) HasDates() bool {
	return len(s.dates) > 0
}

// DateRanges returns a copy of the configured ranges
func (s *Spec) DateRanges() []DateRange {
	return slices.Clone(s.dates)
}

// HasProperties reports whether a property constraint is set
func (s *Spec) HasProperties() bool {
	return len(s.properties) > 0
}

// Bounds returns the spatial constraint, or nil if there is none
func (s *Spec) Bounds() *Bounds {
	return s.bounds
}
