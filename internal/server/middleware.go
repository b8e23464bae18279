package server

import (
	"net/http"
)

// maxGuessBody caps JSON request bodies. A guess is well under 1 KiB.
const maxGuessBody = 16 << 10

// limitBody rejects bodies larger than n bytes. Decoding an oversized body
// fails, which the handlers report as an invalid request body.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > n {
				writeErrorDetails(w, http.StatusRequestEntityTooLarge, msgInvalidBody, []string{"request body too large"})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
