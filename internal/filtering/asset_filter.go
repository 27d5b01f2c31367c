package filtering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/stacklok/stac-query/internal/stacerr"
)

const globMetaChars = "*?[{"

// assetPattern is one configured asset name, either literal or a compiled glob
type assetPattern struct {
	name string
	glob glob.Glob
}

func compileAssetPatterns(names []string) ([]assetPattern, error) {
	patterns := make([]assetPattern, 0, len(names))
	for i, name := range names {
		if name == "" {
			return nil, stacerr.NewValidationError("assetNames[%d]: name cannot be empty", i)
		}
		p := assetPattern{name: name}
		if strings.ContainsAny(name, globMetaChars) {
			compiled, err := glob.Compile(name)
			if err != nil {
				return nil, stacerr.WrapValidationError(
					fmt.Errorf("invalid glob pattern: %w", err), fmt.Sprintf("assetNames[%d] %q", i, name))
			}
			p.glob = compiled
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// SelectAssets returns the asset keys to resolve, in preference order, from the keys
// an item actually has. A literal name appears when present; a glob name expands to
// every matching key in sorted order. A key selected by several names keeps all its
// positions, so later preferences still override earlier ones.
func (s *Spec) SelectAssets(available []string) []string {
	if len(s.assets) == 0 || len(available) == 0 {
		return nil
	}

	present := make(map[string]struct{}, len(available))
	for _, key := range available {
		present[key] = struct{}{}
	}

	var selected []string
	for _, p := range s.assets {
		if p.glob == nil {
			if _, ok := present[p.name]; ok {
				selected = append(selected, p.name)
			}
			continue
		}

		var matches []string
		for _, key := range available {
			if p.glob.Match(key) {
				matches = append(matches, key)
			}
		}
		sort.Strings(matches)
		selected = append(selected, matches...)
	}
	return selected
}
