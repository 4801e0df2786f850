package httpapi

import (
	"net/http"
	"runtime/debug"
)

// Recoverer turns a handler panic into a logged JSON 500. http.ErrAbortHandler
// is re-raised so net/http can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			reqEvent(zlog.Error(), r).Interface("panic", rvr).Str("stack", string(debug.Stack())).
				Str("method", r.Method).Str("path", r.URL.Path).Msg("handler panic")
			writeJSONError(w, http.StatusInternalServerError, detailInternal)
		}()
		next.ServeHTTP(w, r)
	})
}
