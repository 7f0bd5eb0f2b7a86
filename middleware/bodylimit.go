package middleware

import (
	"net/http"

	"github.com/mnehpets/jsonrpcd/endpoint"
)

// DefaultMaxBodyBytes is the body limit used when none is configured.
const DefaultMaxBodyBytes = 1 << 20 // 1MB

// BodyLimitProcessor caps the number of request body bytes that later stages
// may read. Reading past the limit fails with *http.MaxBytesError, which the
// endpoint decoder reports as 413 Request Entity Too Large.
type BodyLimitProcessor struct {
	MaxBytes int64
}

// NewBodyLimitProcessor returns a processor limiting bodies to maxBytes.
// A non-positive maxBytes selects DefaultMaxBodyBytes.
func NewBodyLimitProcessor(maxBytes int64) *BodyLimitProcessor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return &BodyLimitProcessor{MaxBytes: maxBytes}
}

// Process implements endpoint.Processor.
func (p *BodyLimitProcessor) Process(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request) error) error {
	if r.ContentLength > p.MaxBytes {
		return endpoint.Error(http.StatusRequestEntityTooLarge, "", nil)
	}
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(w, r.Body, p.MaxBytes)
	}
	return next(w, r)
}

var _ endpoint.Processor = (*BodyLimitProcessor)(nil)
