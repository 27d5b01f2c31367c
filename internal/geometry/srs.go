package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/wroge/wgs84"
)

const (
	// EPSG4326 is geographic WGS84, the reference of every STAC geometry and bbox
	EPSG4326 = "EPSG:4326"
	// EPSG3857 is the spherical web mercator projection
	EPSG3857 = "EPSG:3857"
)

var srsAliases = map[string]string{
	"WGS84":       EPSG4326,
	"CRS:84":      EPSG4326,
	"OGC:CRS84":   EPSG4326,
	"EPSG:900913": EPSG3857,
	"EPSG:3785":   EPSG3857,
}

// epsg holds the coordinate reference systems known by code
var epsg = wgs84.EPSG()

// NormalizeSRS maps a user supplied spatial reference to its canonical name.
// An empty string means EPSG:4326 and a bare number is read as an EPSG code.
// Unknown references are returned upper-cased, so they can still be compared,
// and fail later when a reprojection is needed.
func NormalizeSRS(srs string) string {
	key := strings.ToUpper(strings.TrimSpace(srs))
	if key == "" {
		return EPSG4326
	}
	if _, err := strconv.Atoi(key); err == nil {
		key = "EPSG:" + key
	}
	if canonical, ok := srsAliases[key]; ok {
		return canonical
	}
	return key
}

// IsSupportedSRS reports whether geometries can be reprojected to and from srs
func IsSupportedSRS(srs string) bool {
	code, err := epsgCode(NormalizeSRS(srs))
	if err != nil {
		return false
	}
	_, err = epsg.SafeCode(code)
	return err == nil
}

func epsgCode(srs string) (int, error) {
	digits, ok := strings.CutPrefix(srs, "EPSG:")
	if !ok {
		return 0, fmt.Errorf("%s is not an EPSG reference", srs)
	}
	code, err := strconv.Atoi(digits)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("%s is not an EPSG reference", srs)
	}
	return code, nil
}

// projection returns the point transformation between two canonical references.
// Web mercator conversions use orb/project; every other pair goes through the
// EPSG repository of wgs84.
func projection(from, to string) (orb.Projection, error) {
	switch {
	case from == EPSG4326 && to == EPSG3857:
		return project.WGS84.ToMercator, nil
	case from == EPSG3857 && to == EPSG4326:
		return project.Mercator.ToWGS84, nil
	}

	fromCode, err := epsgCode(from)
	if err != nil {
		return nil, fmt.Errorf("no transformation available from %s to %s: %w", from, to, err)
	}
	toCode, err := epsgCode(to)
	if err != nil {
		return nil, fmt.Errorf("no transformation available from %s to %s: %w", from, to, err)
	}
	fromCRS, err := epsg.SafeCode(fromCode)
	if err != nil {
		return nil, fmt.Errorf("no transformation available from %s to %s: %w", from, to, err)
	}
	toCRS, err := epsg.SafeCode(toCode)
	if err != nil {
		return nil, fmt.Errorf("no transformation available from %s to %s: %w", from, to, err)
	}

	transform := wgs84.Transform(fromCRS, toCRS)
	return func(p orb.Point) orb.Point {
		x, y, _ := transform(p[0], p[1], 0)
		return orb.Point{x, y}
	}, nil
}
