package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// ProcessTime wraps an http.Handler and stamps X-Process-Time-Ms on the
// response. It sits outside the restful container because the header has to
// be set before the first body write.
func ProcessTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&timingWriter{ResponseWriter: w, start: time.Now()}, r)
	})
}

type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (w *timingWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		elapsed := float64(time.Since(w.start).Microseconds()) / 1000.0
		w.Header().Set("X-Process-Time-Ms", strconv.FormatFloat(elapsed, 'f', 2, 64))
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
