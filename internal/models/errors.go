package models

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateGroup = errors.New("a group with this type and criteria already exists")
)
