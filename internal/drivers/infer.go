// Package drivers maps catalog assets to the reader driver able to open them.
package drivers

import (
	"net/url"
	"path"
	"strings"
)

// Reader driver identifiers
const (
	ReaderCOPC = "readers.copc"
	ReaderLAS  = "readers.las"
	ReaderEPT  = "readers.ept"
	ReaderI3S  = "readers.i3s"
	ReaderSLPK = "readers.slpk"
	ReaderText = "readers.text"
	ReaderGDAL = "readers.gdal"
)

// extensionDrivers maps lowercase file extensions to reader drivers
var extensionDrivers = map[string]string{
	".las":  ReaderLAS,
	".laz":  ReaderLAS,
	".bpf":  "readers.bpf",
	".e57":  "readers.e57",
	".ply":  "readers.ply",
	".pcd":  "readers.pcd",
	".pts":  "readers.pts",
	".ptx":  "readers.ptx",
	".obj":  "readers.obj",
	".sbet": "readers.sbet",
	".fbi":  "readers.fbi",
	".txt":  ReaderText,
	".csv":  ReaderText,
	".tif":  ReaderGDAL,
	".tiff": ReaderGDAL,
	".vrt":  ReaderGDAL,
	".slpk": ReaderSLPK,
}

// InferReaderDriver guesses a reader driver from the shape of location.
// It never touches the network and returns "" when nothing matches.
func InferReaderDriver(location string) string {
	lower := strings.ToLower(strings.TrimSpace(location))
	if lower == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(lower, "ept://"):
		return ReaderEPT
	case strings.HasPrefix(lower, "i3s://"):
		return ReaderI3S
	}

	p := stripQuery(lower)
	base := path.Base(p)

	switch {
	case base == "ept.json" || strings.HasSuffix(base, "-ept.json"):
		return ReaderEPT
	case strings.HasSuffix(base, ".copc.laz"):
		return ReaderCOPC
	}

	return extensionDrivers[path.Ext(base)]
}

// stripQuery drops the query and fragment of URL locations
func stripQuery(location string) string {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return u.Path
	}
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i]
	}
	return location
}
