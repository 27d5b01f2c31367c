// Package geometry implements the spatial operations needed by the bounds filter:
// building polygons from boxes and GeoJSON, attaching and converting spatial
// references, validity checks and disjointness tests.
//
// Geometries are held as github.com/paulmach/orb values. Reprojection accepts any
// EPSG code known to github.com/wroge/wgs84 (geographic, web mercator, UTM and
// national grids); web mercator conversions use orb/project directly. Spatial
// predicates are evaluated by github.com/peterstace/simplefeatures.
package geometry
