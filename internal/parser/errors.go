package parser

import "errors"

// ErrNotText is returned when a file without a known format is not valid UTF-8.
var ErrNotText = errors.New("file is not readable as text")
