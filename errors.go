package cps2

import "errors"

var (
	// ErrInvalidTable is returned when an s-box table does not have 64 entries in [0,3].
	ErrInvalidTable = errors.New("cps2: invalid s-box table, must be 64 entries in [0,3]")

	// ErrInvalidInputs is returned when an s-box input list is not 1 to 6 distinct bit positions in [0,7].
	ErrInvalidInputs = errors.New("cps2: invalid s-box inputs, must be 1 to 6 distinct bit positions in [0,7]")

	// ErrInvalidOutputs is returned when an s-box output list is not 2 distinct bit positions in [0,7].
	ErrInvalidOutputs = errors.New("cps2: invalid s-box outputs, must be 2 distinct bit positions in [0,7]")

	// ErrInvalidGroup is returned when a group does not hold exactly 4 s-boxes.
	ErrInvalidGroup = errors.New("cps2: invalid s-box group, must hold 4 s-boxes")

	// ErrOverlappingOutputs is returned when two s-boxes of a group write the same output bit.
	ErrOverlappingOutputs = errors.New("cps2: s-box outputs overlap within a group")

	// ErrUncoveredOutputs is returned when the s-boxes of a group leave an output bit unwritten.
	ErrUncoveredOutputs = errors.New("cps2: s-box outputs do not cover every bit of the half-block")

	// ErrInvalidPermutation is returned when a block permutation does not split 16 bits into two disjoint halves of 8.
	ErrInvalidPermutation = errors.New("cps2: invalid permutation, groups must be 8 distinct positions each covering [0,15]")

	// ErrInvalidKey is returned when a key string does not decode to 96 bits.
	ErrInvalidKey = errors.New("cps2: invalid key, must be 24 hexadecimal digits")

	// ErrNoPairs is returned when recovery is attempted before any known pair was added.
	ErrNoPairs = errors.New("cps2: no known plaintext/ciphertext pairs")

	// ErrInvalidPair is returned when a pair string is not two 16-bit numbers separated by a colon.
	ErrInvalidPair = errors.New("cps2: invalid pair, must be plaintext:ciphertext")

	// ErrNoKeyInModel is returned when a satisfying model does not assign the key.
	ErrNoKeyInModel = errors.New("cps2: model does not assign the key")

	// ErrDIMACSUnsupported is returned when the solver cannot export its clauses.
	ErrDIMACSUnsupported = errors.New("cps2: solver does not support DIMACS export")
)
