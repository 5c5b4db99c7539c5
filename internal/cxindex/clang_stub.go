//go:build !clang

package cxindex

import "errors"

// NewClangIndex requires the clang build tag, which links libclang through
// cgo. Without it the core and its tests still build and run.
func NewClangIndex() (Index, error) {
	return nil, errors.New("built without libclang support; rebuild with -tags clang")
}
