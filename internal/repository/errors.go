package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrVideoAlreadySet = errors.New("video already attached")
)
