package stac

import "github.com/stacklok/stac-query/internal/stacerr"

// ObjectError is an error attributable to one item or page
type ObjectError = stacerr.ObjectError

// ValidationError is an error caused by structurally invalid input
type ValidationError = stacerr.ValidationError
