package random

import "github.com/nupic-community/seedrand/common/errors"

// ModuleName is the module name used for error registration.
const ModuleName = "common/random"

var (
	// ErrInvalidSeed is the error returned when a generator would end up
	// with the reserved zero seed.
	ErrInvalidSeed = errors.New(ModuleName, 1, "random: invalid seed")

	// ErrVersionMismatch is the error returned when a serialized
	// generator does not start with the expected version tag.
	ErrVersionMismatch = errors.New(ModuleName, 2, "random: unexpected version tag")

	// ErrTerminatorMismatch is the error returned when a serialized
	// generator does not end with the expected end tag.
	ErrTerminatorMismatch = errors.New(ModuleName, 3, "random: unexpected end tag")

	// ErrMalformedToken is the error returned when a field of a
	// serialized generator can not be parsed.
	ErrMalformedToken = errors.New(ModuleName, 4, "random: malformed token")

	// ErrInvalidSample is the error returned when more elements are
	// requested than the population holds.
	ErrInvalidSample = errors.New(ModuleName, 5, "random: sample larger than population")
)
