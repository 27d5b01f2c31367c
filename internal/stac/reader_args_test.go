package stac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReaderArgs_For(t *testing.T) {
	t.Parallel()

	args := ReaderArgs{
		"readers.copc": {
			"resolution": "1.0",
			"threads":    4,
			"nosrs":      true,
			"polygon":    []any{"POLYGON((0 0, 1 0, 1 1, 0 0))"},
			"override":   nil,
		},
		"readers.ept": {"threads": 2},
	}

	assert.Equal(t, map[string]string{
		"resolution": "1.0",
		"threads":    "4",
		"nosrs":      "true",
		"polygon":    `["POLYGON((0 0, 1 0, 1 1, 0 0))"]`,
		"override":   "",
	}, args.For("readers.copc"))

	assert.Empty(t, args.For("readers.las"))
	assert.Empty(t, ReaderArgs(nil).For("readers.las"))
	assert.Equal(t, []string{"readers.copc", "readers.ept"}, args.Drivers())
}
