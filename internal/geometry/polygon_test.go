package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDisjoint(t *testing.T, a, b *Polygon) bool {
	t.Helper()
	disjoint, err := a.Disjoint(b)
	require.NoError(t, err)
	return disjoint
}

func TestDisjoint_Boxes(t *testing.T) {
	t.Parallel()

	item := FromBounds(0, 0, 1, 1, EPSG4326)

	tests := []struct {
		name     string
		query    *Polygon
		disjoint bool
	}{
		{name: "separate boxes", query: FromBounds(2, 2, 3, 3, EPSG4326), disjoint: true},
		{name: "overlapping boxes", query: FromBounds(0.5, 0.5, 2, 2, EPSG4326), disjoint: false},
		{name: "shared edge touches", query: FromBounds(1, 0, 2, 1, EPSG4326), disjoint: false},
		{name: "shared corner touches", query: FromBounds(1, 1, 2, 2, EPSG4326), disjoint: false},
		{name: "query contains item", query: FromBounds(-1, -1, 5, 5, EPSG4326), disjoint: false},
		{name: "item contains query", query: FromBounds(0.25, 0.25, 0.75, 0.75, EPSG4326), disjoint: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.disjoint, mustDisjoint(t, item, tt.query))
			assert.Equal(t, tt.disjoint, mustDisjoint(t, tt.query, item))
		})
	}
}

func TestDisjoint_GeoJSON(t *testing.T) {
	t.Parallel()

	// triangle whose bounding box overlaps the query box while the shape does not
	triangle, err := FromGeoJSON([]byte(`{"type":"Polygon","coordinates":[[[0,0],[4,0],[0,4],[0,0]]]}`), "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    *Polygon
		disjoint bool
	}{
		{name: "bbox overlap only", query: FromBounds(3, 3, 4, 4, EPSG4326), disjoint: true},
		{name: "crosses hypotenuse", query: FromBounds(1.5, 1.5, 3, 3, EPSG4326), disjoint: false},
		{name: "inside triangle", query: FromBounds(0.5, 0.5, 1, 1, EPSG4326), disjoint: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.disjoint, mustDisjoint(t, triangle, tt.query))
		})
	}
}

func TestDisjoint_PointsAndLines(t *testing.T) {
	t.Parallel()

	box := FromBounds(0, 0, 2, 2, EPSG4326)

	point, err := FromGeoJSON([]byte(`{"type":"Point","coordinates":[1,1]}`), "")
	require.NoError(t, err)
	assert.False(t, mustDisjoint(t, box, point))

	edgePoint, err := FromGeoJSON([]byte(`{"type":"Point","coordinates":[2,1]}`), "")
	require.NoError(t, err)
	assert.False(t, mustDisjoint(t, box, edgePoint))

	farPoint, err := FromGeoJSON([]byte(`{"type":"Point","coordinates":[5,5]}`), "")
	require.NoError(t, err)
	assert.True(t, mustDisjoint(t, box, farPoint))

	line, err := FromGeoJSON([]byte(`{"type":"LineString","coordinates":[[-1,1],[3,1]]}`), "")
	require.NoError(t, err)
	assert.False(t, mustDisjoint(t, box, line))
}

func TestDisjoint_MultiPolygon(t *testing.T) {
	t.Parallel()

	// two tiles of a flight line with a gap between them
	tiles, err := FromGeoJSON([]byte(`{"type":"MultiPolygon","coordinates":[
		[[[0,0],[1,0],[1,1],[0,1],[0,0]]],
		[[[3,0],[4,0],[4,1],[3,1],[3,0]]]]}`), "")
	require.NoError(t, err)

	assert.True(t, mustDisjoint(t, tiles, FromBounds(1.5, 0.25, 2.5, 0.75, EPSG4326)))
	assert.False(t, mustDisjoint(t, tiles, FromBounds(2.5, 0.25, 3.5, 0.75, EPSG4326)))
}

func TestDisjoint_DifferentReferences(t *testing.T) {
	t.Parallel()

	_, err := FromBounds(0, 0, 1, 1, EPSG4326).Disjoint(FromBounds(0, 0, 1, 1, EPSG3857))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EPSG:3857")
}

func TestFromGeoJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `not-json`},
		{name: "unknown type", data: `{"type":"Circle","coordinates":[0,0]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FromGeoJSON([]byte(tt.data), EPSG4326)
			require.Error(t, err)
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		geom    orb.Geometry
		wantErr string
	}{
		{name: "closed ring", geom: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}},
		{name: "open ring", geom: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}, wantErr: "not closed"},
		{name: "short ring", geom: orb.Polygon{{{0, 0}, {1, 0}, {0, 0}}}, wantErr: "at least 4"},
		{name: "no rings", geom: orb.Polygon{}, wantErr: "no rings"},
		{name: "nan coordinate", geom: orb.Point{math.NaN(), 0}, wantErr: "not finite"},
		{name: "empty multipolygon", geom: orb.MultiPolygon{}, wantErr: "no polygons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := (&Polygon{geom: tt.geom, srs: EPSG4326}).Valid()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTransform(t *testing.T) {
	t.Parallel()

	wgs := FromBounds(0, 0, 1, 1, EPSG4326)

	t.Run("same reference is a no-op", func(t *testing.T) {
		t.Parallel()
		out, err := wgs.Transform("epsg:4326")
		require.NoError(t, err)
		assert.Same(t, wgs, out)
	})

	t.Run("to web mercator", func(t *testing.T) {
		t.Parallel()
		out, err := wgs.Transform(EPSG3857)
		require.NoError(t, err)
		assert.Equal(t, EPSG3857, out.SRS())

		bound := out.Geometry().Bound()
		assert.InDelta(t, 0, bound.Min[0], 1e-6)
		assert.InDelta(t, 111319.49, bound.Max[0], 0.1)

		// source untouched
		assert.Equal(t, orb.Point{1, 1}, wgs.Geometry().Bound().Max)
	})

	t.Run("mercator query matches reprojected item", func(t *testing.T) {
		t.Parallel()
		out, err := wgs.Transform(EPSG3857)
		require.NoError(t, err)
		query := FromBounds(50000, 50000, 200000, 200000, EPSG3857)
		assert.False(t, mustDisjoint(t, out, query))
	})

	t.Run("unsupported reference", func(t *testing.T) {
		t.Parallel()
		_, err := wgs.Transform("ESRI:102003")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ESRI:102003")
	})
}

func TestTransform_UTM(t *testing.T) {
	t.Parallel()

	// a tile around Boulder, Colorado, on the central meridian of UTM zone 13N
	tile := FromBounds(-105.01, 39.99, -104.99, 40.01, EPSG4326)

	utm, err := tile.Transform("EPSG:32613")
	require.NoError(t, err)
	assert.Equal(t, "EPSG:32613", utm.SRS())

	bound := utm.Geometry().Bound()
	assert.InDelta(t, 500000, bound.Center()[0], 5)
	assert.InDelta(t, 4427700, bound.Center()[1], 2000)
	assert.InDelta(t, 1700, bound.Max[0]-bound.Min[0], 100)

	assert.False(t, mustDisjoint(t, utm, FromBounds(499000, 4420000, 501000, 4440000, "EPSG:32613")))
	assert.True(t, mustDisjoint(t, utm, FromBounds(510000, 4420000, 520000, 4440000, "EPSG:32613")))

	back, err := utm.Transform(EPSG4326)
	require.NoError(t, err)
	for i, pt := range back.Geometry().(orb.Polygon)[0] {
		want := tile.Geometry().(orb.Polygon)[0][i]
		assert.InDelta(t, want[0], pt[0], 1e-6)
		assert.InDelta(t, want[1], pt[1], 1e-6)
	}
}

func TestNormalizeSRS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EPSG4326, NormalizeSRS(""))
	assert.Equal(t, EPSG4326, NormalizeSRS(" epsg:4326 "))
	assert.Equal(t, EPSG4326, NormalizeSRS("OGC:CRS84"))
	assert.Equal(t, EPSG3857, NormalizeSRS("EPSG:900913"))
	assert.Equal(t, "EPSG:32613", NormalizeSRS("epsg:32613"))
	assert.Equal(t, EPSG3857, NormalizeSRS("3857"))
	assert.True(t, IsSupportedSRS("3857"))
	assert.True(t, IsSupportedSRS("epsg:32613"))
	assert.False(t, IsSupportedSRS("ESRI:102003"))
	assert.False(t, IsSupportedSRS("EPSG:0"))
}
