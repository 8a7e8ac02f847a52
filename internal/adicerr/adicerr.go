// Package adicerr defines the two error kinds every fallible operation in
// libadic reports: a mathematical Domain failure (the input is outside the
// operation's domain) and a structural InvalidArgument failure (the input is
// malformed independent of any particular mathematical value).
package adicerr

import (
	"errors"
	"fmt"
)

// ErrDomain is wrapped by every domain error. Use errors.Is(err, ErrDomain)
// to classify an error returned from this module.
var ErrDomain = errors.New("domain error")

// ErrInvalidArgument is wrapped by every invalid-argument error.
var ErrInvalidArgument = errors.New("invalid argument")

// Domainf builds a Domain error with a formatted message naming the failed
// precondition.
func Domainf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDomain)
}

// InvalidArgumentf builds an InvalidArgument error with a formatted message.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// IsDomain reports whether err is (or wraps) a Domain error.
func IsDomain(err error) bool {
	return errors.Is(err, ErrDomain)
}

// IsInvalidArgument reports whether err is (or wraps) an InvalidArgument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
