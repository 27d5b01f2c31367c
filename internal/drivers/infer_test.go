package drivers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferReaderDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		want     string
	}{
		{location: "tile.laz", want: ReaderLAS},
		{location: "/data/TILE.LAS", want: ReaderLAS},
		{location: "https://example.com/data/tile.copc.laz", want: ReaderCOPC},
		{location: "https://example.com/data/tile.laz?sig=abc#frag", want: ReaderLAS},
		{location: "https://example.com/ept/ept.json", want: ReaderEPT},
		{location: "ept://https://example.com/ept", want: ReaderEPT},
		{location: "i3s://https://example.com/layers/0", want: ReaderI3S},
		{location: "scene.slpk", want: ReaderSLPK},
		{location: "points.csv", want: ReaderText},
		{location: "dem.tif", want: ReaderGDAL},
		{location: "scan.e57", want: "readers.e57"},
		{location: "README", want: ""},
		{location: "archive.zip", want: ""},
		{location: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, InferReaderDriver(tt.location))
		})
	}
}
