package filtering

import (
	"fmt"
	"regexp"

	"github.com/stacklok/stac-query/internal/stacerr"
)

// compilePatterns compiles each expression anchored at both ends so that only a
// full match of the tested value counts
func compilePatterns(field string, exprs []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for i, expr := range exprs {
		re, err := regexp.Compile(`^(?:` + expr + `)$`)
		if err != nil {
			return nil, stacerr.WrapValidationError(err, fmt.Sprintf("%s[%d] %q", field, i, expr))
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchAny(patterns []*regexp.Regexp, value string) bool {
	for _, re := range patterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// MatchID reports whether id passes the identifier filter
// Returns (matches bool, reason string)
func (s *Spec) MatchID(id string) (bool, string) {
	if len(s.ids) == 0 {
		return true, "no id patterns"
	}
	if matchAny(s.ids, id) {
		return true, "id matched"
	}
	return false, fmt.Sprintf("id %q matches none of %d patterns", id, len(s.ids))
}

// MatchCollection reports whether an item collection passes the collection filter.
// present is false when the item has no collection field.
func (s *Spec) MatchCollection(collection string, present bool) (bool, string) {
	if len(s.collections) == 0 {
		return true, "no collection patterns"
	}
	if !present {
		return false, "item has no collection"
	}
	if matchAny(s.collections, collection) {
		return true, "collection matched"
	}
	return false, fmt.Sprintf("collection %q matches none of %d patterns", collection, len(s.collections))
}
