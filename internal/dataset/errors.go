package dataset

import "errors"

var (
	ErrInvalidParams  = errors.New("invalid generation parameters")
	ErrLabelRange     = errors.New("label out of range")
	ErrRaggedClouds   = errors.New("clouds have different point counts")
	ErrLengthMismatch = errors.New("clouds and labels differ in length")
)
