package web

import "net/http"

// RegisterAPIV1 registers the read-only API under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, src Source) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(src)))
}

// NewDefaultMux builds the mux used by both the device and the simulator.
// The simulator adds its /sim/ routes on top.
func NewDefaultMux(src Source) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, src)
	return mux
}
