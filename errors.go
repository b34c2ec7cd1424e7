package sessiongen

import "errors"

// Common errors for dataset generation.
var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidStoreType    = errors.New("invalid store type")
	ErrInvalidConversation = errors.New("invalid conversation record")
	ErrNotFound            = errors.New("session not found")
)
