// Package stac evaluates catalog queries over paginated STAC FeatureCollections.
//
// A Traversal walks a root page and every page reachable through "next" links.
// Each feature becomes an Item whose Init runs the filter chain of a
// filtering.Spec and, when the item is accepted, resolves the asset, reader
// driver and reader options used to open its data later.
//
// Items are either rejected and dropped or fully resolved; only resolved items
// are returned. Failures are reported as *ObjectError when they can be pinned
// to one item or page, and as *ValidationError otherwise. Both abort the query.
package stac
