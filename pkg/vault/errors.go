package vault

import "errors"

// ErrMissingPayload is returned when a catalog row exists but the bytes it
// points at are gone from storage. Reads must report this condition rather
// than crash on it; Verify lists such rows as dangling.
var ErrMissingPayload = errors.New("file payload missing from storage")
