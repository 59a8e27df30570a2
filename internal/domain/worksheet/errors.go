package worksheet

import "errors"

var (
	ErrNoEntries      = errors.New("worksheet must contain at least one entry")
	ErrTooManyEntries = errors.New("worksheet has too many entries")
)
