package layout

import "errors"

var ErrInvalidExport = errors.New("invalid layout export")
