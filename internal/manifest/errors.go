package manifest

import (
	"errors"
	"fmt"
)

// ErrMissingName is wrapped by a ManifestError when the name field is absent.
var ErrMissingName = errors.New("missing required field: name")

// ManifestError reports a manifest that cannot be used.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }
