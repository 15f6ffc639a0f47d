package output

import "errors"

// ErrUnsupportedFormat is returned for report formats no formatter handles
var ErrUnsupportedFormat = errors.New("unsupported report format")
