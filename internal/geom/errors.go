package geom

import "errors"

// ErrInvalidArgument is returned for inputs that would produce a degenerate
// volume, such as an empty vertex set or an unsupported atom scale.
var ErrInvalidArgument = errors.New("geom: invalid argument")
