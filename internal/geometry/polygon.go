package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
)

// Polygon is an areal (or degenerate point/line) geometry tagged with a spatial reference
type Polygon struct {
	geom orb.Geometry
	srs  string
}

// FromBounds builds an axis-aligned rectangle. Z extents of 3D boxes do not take part
// in any spatial test and are not passed here.
func FromBounds(minX, minY, maxX, maxY float64, srs string) *Polygon {
	bound := orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{maxX, maxY},
	}
	return &Polygon{geom: bound.ToPolygon(), srs: NormalizeSRS(srs)}
}

// FromGeoJSON parses a GeoJSON geometry object
func FromGeoJSON(data []byte, srs string) (*Polygon, error) {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON geometry: %w", err)
	}
	if g == nil || g.Geometry() == nil {
		return nil, errors.New("GeoJSON geometry is empty")
	}
	return &Polygon{geom: g.Geometry(), srs: NormalizeSRS(srs)}, nil
}

// SRS returns the canonical spatial reference of the polygon
func (p *Polygon) SRS() string {
	return p.srs
}

// Geometry returns the underlying orb geometry
func (p *Polygon) Geometry() orb.Geometry {
	return p.geom
}

// Transform reprojects the polygon into srs. The receiver is left unchanged.
func (p *Polygon) Transform(srs string) (*Polygon, error) {
	target := NormalizeSRS(srs)
	if target == p.srs {
		return p, nil
	}
	proj, err := projection(p.srs, target)
	if err != nil {
		return nil, err
	}
	projected := project.Geometry(orb.Clone(p.geom), proj)
	out := &Polygon{geom: projected, srs: target}
	if err := out.Valid(); err != nil {
		return nil, fmt.Errorf("reprojection to %s produced an invalid geometry: %w", target, err)
	}
	return out, nil
}

// Valid returns nil if the geometry can take part in spatial tests
func (p *Polygon) Valid() error {
	if p == nil || p.geom == nil {
		return errors.New("geometry is empty")
	}
	return validate(p.geom)
}

// Disjoint reports whether the two polygons share no point. Polygons that only
// touch along an edge or at a vertex are not disjoint. Both must use the same
// spatial reference.
func (p *Polygon) Disjoint(other *Polygon) (bool, error) {
	if p.srs != other.srs {
		return false, fmt.Errorf("cannot compare %s geometry with %s geometry", p.srs, other.srs)
	}
	return disjoint(p.geom, other.geom)
}

func validate(g orb.Geometry) error {
	switch geom := g.(type) {
	case orb.Point:
		return validPoint(geom)
	case orb.MultiPoint:
		if len(geom) == 0 {
			return errors.New("multipoint has no points")
		}
		return validPoints(geom)
	case orb.LineString:
		if len(geom) < 2 {
			return errors.New("linestring needs at least two points")
		}
		return validPoints(geom)
	case orb.MultiLineString:
		if len(geom) == 0 {
			return errors.New("multilinestring has no lines")
		}
		for _, ls := range geom {
			if err := validate(ls); err != nil {
				return err
			}
		}
		return nil
	case orb.Ring:
		return validRing(geom)
	case orb.Polygon:
		if len(geom) == 0 {
			return errors.New("polygon has no rings")
		}
		for _, r := range geom {
			if err := validRing(r); err != nil {
				return err
			}
		}
		return nil
	case orb.MultiPolygon:
		if len(geom) == 0 {
			return errors.New("multipolygon has no polygons")
		}
		for _, poly := range geom {
			if err := validate(poly); err != nil {
				return err
			}
		}
		return nil
	case orb.Bound:
		return validPoints([]orb.Point{geom.Min, geom.Max})
	case orb.Collection:
		if len(geom) == 0 {
			return errors.New("geometry collection is empty")
		}
		for _, child := range geom {
			if err := validate(child); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported geometry type %T", g)
	}
}

func validRing(r orb.Ring) error {
	if len(r) < 4 {
		return fmt.Errorf("ring has %d points, at least 4 are required", len(r))
	}
	if !r.Closed() {
		return errors.New("ring is not closed")
	}
	return validPoints(r)
}

func validPoints[T ~[]orb.Point](points T) error {
	for _, pt := range points {
		if err := validPoint(pt); err != nil {
			return err
		}
	}
	return nil
}

func validPoint(pt orb.Point) error {
	for _, c := range pt {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("coordinate %v is not finite", pt)
		}
	}
	return nil
}
