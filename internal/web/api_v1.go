package web

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"strconv"

	"github.com/rook-computer/circuit/internal/host"
	"github.com/rook-computer/circuit/internal/render"
	xdraw "golang.org/x/image/draw"
)

const maxFrameScale = 8

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func apiV1Router(src Source) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) { handleState(w, r, src) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, src) })
	return mux
}

func handleState(w http.ResponseWriter, r *http.Request, src Source) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	state, err := src.State(r.Context())
	if err != nil {
		writeSourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleFrame serves the current frame, optionally enlarged with ?scale=N.
func handleFrame(w http.ResponseWriter, r *http.Request, src Source) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	scale := 1
	if raw := r.URL.Query().Get("scale"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxFrameScale {
			writeAPIError(w, http.StatusBadRequest, "bad_scale", "scale must be an integer from 1 to 8")
			return
		}
		scale = n
	}

	frame, err := src.Frame(r.Context())
	if err != nil {
		writeSourceError(w, err)
		return
	}
	if scale > 1 {
		frame = scaleFrame(frame, scale)
	}

	data, err := render.SnapshotPNG(frame)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func scaleFrame(frame *image.RGBA, scale int) *image.RGBA {
	size := frame.Bounds().Size().Mul(scale)
	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
	return dst
}

func writeSourceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoFrame):
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", err.Error())
	case errors.Is(err, host.ErrLoopStopped):
		writeAPIError(w, http.StatusServiceUnavailable, "stopped", err.Error())
	default:
		writeAPIError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
