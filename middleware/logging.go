package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mnehpets/jsonrpcd/endpoint"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client-supplied ids that are echoed back and logged.
const maxRequestIDLen = 128

// AccessLogProcessor assigns every request an id and logs one line per
// request once the response has been written.
//
// A client-supplied X-Request-ID is reused when present and reasonably short;
// otherwise a random UUID is generated. The id is echoed in the response.
type AccessLogProcessor struct {
	Logger zerolog.Logger
}

// NewAccessLogProcessor returns a processor logging to logger.
func NewAccessLogProcessor(logger zerolog.Logger) *AccessLogProcessor {
	return &AccessLogProcessor{Logger: logger}
}

// Process implements endpoint.Processor.
func (p *AccessLogProcessor) Process(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request) error) error {
	start := time.Now()

	id := r.Header.Get(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.New().String()
	}
	w.Header().Set(RequestIDHeader, id)

	logger := p.Logger.With().Str("request_id", id).Logger()
	r = r.WithContext(logger.WithContext(r.Context()))

	rec := &statusRecorder{ResponseWriter: w}
	err := next(rec, r)

	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	ev := logger.Info()
	if err != nil || status >= http.StatusInternalServerError {
		ev = logger.Warn().Err(err)
	}
	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote", r.RemoteAddr).
		Int("status", status).
		Int("bytes", rec.bytes).
		Dur("duration", time.Since(start)).
		Msg("http request")
	return err
}

// statusRecorder records the status and size of the response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

var _ endpoint.Processor = (*AccessLogProcessor)(nil)
