// Package filtering compiles the item constraints of a catalog query.
//
// A Spec is built once per query from a config.FilterConfig and is read-only
// afterwards, so every page and item of the query shares it. Building a Spec
// compiles all regular expressions, parses all date ranges, types all property
// values and checks the query bounds; any problem is reported as a
// stacerr.ValidationError before a single page is read.
//
// # Asset Names
//
// Asset names are tried in the configured order. A name containing glob
// metacharacters ('*', '?', '[', '{') is matched with gobwas/glob against the
// asset keys of each item, expanding to the matching keys in sorted order.
// Every name that is present is resolved; the last one that yields a reader
// driver is kept.
//
// # Identifier and Collection Patterns
//
// Patterns are regular expressions that must match the whole value, not a
// substring. "^foo$" and "foo" are equivalent. Several patterns are OR'd.
//
// # Date Ranges
//
// A range is an inclusive [start, end] pair. Values are RFC 3339 timestamps,
// timestamps without a zone (read as UTC) or plain dates. A plain end date
// covers the whole day. Items match when their datetime lies inside any range,
// or when their start_datetime/end_datetime interval overlaps any range.
//
// # Properties
//
// Each property key is an independent constraint and all keys must match
// (logical AND). A list of desired values matches when any element matches
// (logical OR). Values are compared using the desired value's type: string,
// unsigned integer, signed integer, float or boolean. A missing item property,
// or one of a different JSON type, does not match.
//
// # Bounds
//
// Bounds are a 2D or 3D box in the query spatial reference (EPSG:4326 when
// unset). Only the horizontal extent takes part in the spatial test.
package filtering
