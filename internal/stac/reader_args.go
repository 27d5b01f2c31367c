package stac

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ReaderArgs holds user supplied reader options keyed by driver name
type ReaderArgs map[string]map[string]any

// For returns the options configured for driver as strings. String values are
// used verbatim, other values are JSON encoded.
func (a ReaderArgs) For(driver string) map[string]string {
	args := a[driver]
	out := make(map[string]string, len(args)+1)
	for key, value := range args {
		switch v := value.(type) {
		case string:
			out[key] = v
		case nil:
			out[key] = ""
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				out[key] = fmt.Sprint(v)
				continue
			}
			out[key] = string(encoded)
		}
	}
	return out
}

// Drivers lists the drivers that have options configured
func (a ReaderArgs) Drivers() []string {
	return slices.Sorted(maps.Keys(a))
}
