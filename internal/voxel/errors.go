package voxel

import "errors"

// Configuration errors. These are caller mistakes and are never retried.
var (
	ErrInvalidResolution      = errors.New("resolution must be positive")
	ErrInvalidSize            = errors.New("chunk size must be positive and finite")
	ErrCapacityExceeded       = errors.New("mesh exceeds the addressable index range")
	ErrVertexLimit            = errors.New("mesh exceeds the configured vertex limit")
	ErrUnsupportedLayout      = errors.New("unsupported mesh layout")
	ErrCullingRequiresFaceted = errors.New("face culling requires the faceted layout")
	ErrNilGrid                = errors.New("nil voxel grid")
)

// Mesh validation errors.
var (
	ErrMalformedMesh      = errors.New("malformed mesh buffers")
	ErrIndexOutOfRange    = errors.New("triangle index out of range")
	ErrDegenerateTriangle = errors.New("degenerate triangle")
)
