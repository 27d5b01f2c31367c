package stac

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/stacklok/stac-query/internal/filtering"
	"github.com/stacklok/stac-query/internal/geometry"
	"github.com/stacklok/stac-query/internal/stacerr"
)

func (i *Item) filterDates(spec *filtering.Spec) (bool, error) {
	if !spec.HasDates() {
		return true, nil
	}

	properties := field(i.raw, "properties")

	if datetime := field(properties, "datetime"); datetime.Exists() && datetime.Type != gjson.Null {
		t, err := i.parseTime("datetime", datetime)
		if err != nil {
			return false, err
		}
		return spec.MatchDatetime(t), nil
	}

	start, end := field(properties, "start_datetime"), field(properties, "end_datetime")
	if !start.Exists() || !end.Exists() {
		return false, stacerr.ItemError(i.id,
			"unexpected layout of dates: expected datetime or start_datetime and end_datetime", nil)
	}

	startTime, err := i.parseTime("start_datetime", start)
	if err != nil {
		return false, err
	}
	endTime, err := i.parseTime("end_datetime", end)
	if err != nil {
		return false, err
	}
	return spec.MatchInterval(startTime, endTime), nil
}

func (i *Item) parseTime(key string, v gjson.Result) (time.Time, error) {
	if v.Type != gjson.String {
		return time.Time{}, stacerr.ItemError(i.id, fmt.Sprintf("%s must be a string, got %s", key, v.Raw), nil)
	}
	t, err := filtering.ParseTime(v.Str)
	if err != nil {
		return time.Time{}, stacerr.ItemError(i.id, "invalid "+key, err)
	}
	return t, nil
}

func (i *Item) filterBounds(bounds *filtering.Bounds) (bool, error) {
	if bounds == nil {
		return true, nil
	}

	footprint, err := i.footprint()
	if err != nil {
		return false, err
	}

	if footprint.SRS() != bounds.SRS {
		footprint, err = footprint.Transform(bounds.SRS)
		if err != nil {
			return false, stacerr.ItemError(i.id, "failed to reproject item geometry", err)
		}
	}

	disjoint, err := footprint.Disjoint(bounds.Polygon())
	if err != nil {
		return false, stacerr.ItemError(i.id, "failed to compare item geometry with bounds", err)
	}
	return !disjoint, nil
}

// footprint builds the item polygon in EPSG:4326 from a 4 or 6 element bbox, or
// from the GeoJSON geometry when no usable bbox is present
func (i *Item) footprint() (*geometry.Polygon, error) {
	if box, ok := numbers(field(i.raw, "bbox")); ok {
		switch len(box) {
		case 4:
			return geometry.FromBounds(box[0], box[1], box[2], box[3], geometry.EPSG4326), nil
		case 6:
			return geometry.FromBounds(box[0], box[1], box[3], box[4], geometry.EPSG4326), nil
		}
	}

	geom := field(i.raw, "geometry")
	if !geom.Exists() || geom.Type == gjson.Null {
		return nil, stacerr.ItemError(i.id, "item has no geometry to filter by bounds", nil)
	}

	polygon, err := geometry.FromGeoJSON([]byte(geom.Raw), geometry.EPSG4326)
	if err != nil {
		return nil, stacerr.ItemError(i.id, "invalid geometry", err)
	}
	if err := polygon.Valid(); err != nil {
		return nil, stacerr.ItemError(i.id, "polygon created from geometry is invalid", err)
	}
	return polygon, nil
}

// numbers returns the elements of an array made only of numbers
func numbers(v gjson.Result) ([]float64, bool) {
	if !v.IsArray() {
		return nil, false
	}
	var out []float64
	ok := true
	v.ForEach(func(_, n gjson.Result) bool {
		if n.Type != gjson.Number {
			ok = false
			return false
		}
		out = append(out, n.Float())
		return true
	})
	return out, ok
}
