package hashtag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is returned when a configured pattern does not compile
	// or has no capturing group for the token body.
	ErrInvalidPattern = errors.New("hashtag: invalid pattern")

	// ErrMatchTimeout is returned when Config.MatchTimeout is set and a match
	// runs longer than allowed.
	ErrMatchTimeout = errors.New("hashtag: match timeout")

	// ErrNoCaptureGroup is the underlying cause when a pattern compiles but has
	// nothing to capture.
	ErrNoCaptureGroup = errors.New("pattern has no capturing group")
)

// PatternError reports which pattern failed to compile.
type PatternError struct {
	Err     error
	Pattern string
	Kind    Kind
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("hashtag: invalid %s pattern %q: %v", e.Kind, e.Pattern, e.Err)
}

// Is makes errors.Is(err, ErrInvalidPattern) hold for every PatternError.
func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
