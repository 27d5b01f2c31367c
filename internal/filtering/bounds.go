package filtering

import (
	"fmt"

	"github.com/stacklok/stac-query/internal/geometry"
)

// Bounds is the spatial constraint of a query
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
	Is3D             bool
	SRS              string

	polygon *geometry.Polygon
}

// NewBounds builds bounds from [minx, miny, maxx, maxy] or
// [minx, miny, minz, maxx, maxy, maxz] in the given spatial reference
func NewBounds(values []float64, srs string) (*Bounds, error) {
	b := &Bounds{SRS: geometry.NormalizeSRS(srs)}
	switch len(values) {
	case 4:
		b.MinX, b.MinY, b.MaxX, b.MaxY = values[0], values[1], values[2], values[3]
	case 6:
		b.MinX, b.MinY, b.MinZ = values[0], values[1], values[2]
		b.MaxX, b.MaxY, b.MaxZ = values[3], values[4], values[5]
		b.Is3D = true
	default:
		return nil, fmt.Errorf("expected 4 or 6 numbers, got %d", len(values))
	}

	if b.MinX > b.MaxX || b.MinY > b.MaxY || b.MinZ > b.MaxZ {
		return nil, fmt.Errorf("minimum exceeds maximum in %v", values)
	}

	b.polygon = geometry.FromBounds(b.MinX, b.MinY, b.MaxX, b.MaxY, b.SRS)
	if err := b.polygon.Valid(); err != nil {
		return nil, fmt.Errorf("query polygon %v is invalid: %w", values, err)
	}
	return b, nil
}

// Polygon returns the query polygon in the query spatial reference
func (b *Bounds) Polygon() *geometry.Polygon {
	return b.polygon
}

func (b *Bounds) String() string {
	if b.Is3D {
		return fmt.Sprintf("([%g, %g], [%g, %g], [%g, %g]) %s", b.MinX, b.MaxX, b.MinY, b.MaxY, b.MinZ, b.MaxZ, b.SRS)
	}
	return fmt.Sprintf("([%g, %g], [%g, %g]) %s", b.MinX, b.MaxX, b.MinY, b.MaxY, b.SRS)
}
