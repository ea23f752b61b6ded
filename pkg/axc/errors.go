package axc

import "errors"

var (
	ErrInvalidMagic     = errors.New("invalid AXC magic")
	ErrUnsupportedMajor = errors.New("unsupported AXC major version")
	ErrTruncated        = errors.New("truncated AXC data")
	ErrSectionNotFound  = errors.New("AXC section not found")
	ErrCapacityExceeded = errors.New("AXC capacity exceeded")
	ErrMalformedRecord  = errors.New("malformed AXC record")
)
