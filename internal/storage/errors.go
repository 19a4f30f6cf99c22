package storage

import "fmt"

// parseError represents a malformed task document.
type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}

// SeedError reports which seed file could not be loaded.
type SeedError struct {
	Path string
	Err  error
}

func (e SeedError) Error() string {
	return fmt.Sprintf("load seed %s: %v", e.Path, e.Err)
}

func (e SeedError) Unwrap() error {
	return e.Err
}
