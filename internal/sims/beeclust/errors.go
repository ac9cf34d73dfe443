package beeclust

import "errors"

var (
	// ErrConfiguration reports an invalid parameter value or thermal ordering.
	ErrConfiguration = errors.New("beeclust: invalid configuration")
	// ErrDimension reports a grid that is empty or not rectangular.
	ErrDimension = errors.New("beeclust: grid must be a non-empty rectangle")
)
