package instruments

import "errors"

const Namespace = "instruments"

var (
	ErrSchemaMismatch = errors.New(
		Namespace + ": family already registered with a different kind or label names",
	)
	ErrInvalidArgument   = errors.New(Namespace + ": invalid argument")
	ErrInvalidConfig     = errors.New(Namespace + ": invalid configuration")
	ErrInvalidDefinition = errors.New(Namespace + ": invalid family definition")
)
