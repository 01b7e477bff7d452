package stager

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNameFormat is returned for filenames that do not follow the processed
// naming convention.
var ErrNameFormat = errors.New("filename does not match <date>_<time>_<rest> convention")

// StagedName rewrites a processed filename into its staging name.
//
// Processed files are named <8-digit-date>_<6-digit-time>_<rest>; the
// destination name is <rest>. Exactly the first two underscore-delimited
// segments are removed by position; everything after them, including any
// further underscores, is preserved verbatim.
func StagedName(name string) (string, error) {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: %q has %d underscore-delimited segment(s), need at least 3", ErrNameFormat, name, len(parts))
	}
	return parts[2], nil
}
