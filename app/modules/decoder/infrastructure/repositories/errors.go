package decoderdb

import "errors"

var (
	// ErrDecoderNotFound is returned when no decoder with the given name exists.
	ErrDecoderNotFound = errors.New("decoder not found")
	// ErrNameTaken is returned when registering a name that already exists.
	ErrNameTaken = errors.New("decoder name already taken")
)
