package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/peterstace/simplefeatures/geom"
)

// disjoint reports whether a and b share no point. Boxes are compared first so
// that far apart geometries are never converted.
func disjoint(a, b orb.Geometry) (bool, error) {
	if a == nil || b == nil {
		return true, nil
	}
	if !a.Bound().Intersects(b.Bound()) {
		return true, nil
	}

	ga, err := toSimpleFeature(a)
	if err != nil {
		return false, err
	}
	gb, err := toSimpleFeature(b)
	if err != nil {
		return false, err
	}
	return !geom.Intersects(ga, gb), nil
}

// toSimpleFeature converts g through WKB
func toSimpleFeature(g orb.Geometry) (geom.Geometry, error) {
	data, err := wkb.Marshal(wkbGeometry(g))
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("failed to encode %s as WKB: %w", g.GeoJSONType(), err)
	}
	out, err := geom.UnmarshalWKB(data)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("failed to decode %s: %w", g.GeoJSONType(), err)
	}
	return out, nil
}

// wkbGeometry replaces the orb types WKB has no encoding for
func wkbGeometry(g orb.Geometry) orb.Geometry {
	switch v := g.(type) {
	case orb.Bound:
		return v.ToPolygon()
	case orb.Ring:
		return orb.Polygon{v}
	case orb.Collection:
		out := make(orb.Collection, len(v))
		for i, child := range v {
			out[i] = wkbGeometry(child)
		}
		return out
	default:
		return g
	}
}
