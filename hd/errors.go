package hd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the parent of every input error in this package.
	ErrInvalidInput = errors.New("hd: invalid input")

	// ErrInvalidPath indicates a path that does not parse.
	ErrInvalidPath = fmt.Errorf("%w: malformed derivation path", ErrInvalidInput)

	// ErrHardenedIndex indicates a hardened index, which public derivation
	// cannot follow.
	ErrHardenedIndex = fmt.Errorf("%w: hardened index", ErrInvalidInput)

	// ErrInvalidChainCode indicates a chain code that is not 32 bytes.
	ErrInvalidChainCode = fmt.Errorf("%w: chain code must be %d bytes", ErrInvalidInput, ChainCodeSize)

	// ErrDepthOverflow indicates a derivation deeper than 255 levels.
	ErrDepthOverflow = fmt.Errorf("%w: depth overflow", ErrInvalidInput)

	// ErrEncoding indicates a key or tweak that could not be encoded.
	ErrEncoding = errors.New("hd: encoding failure")
)
