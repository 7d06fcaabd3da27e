package handler

import (
	"net/http"
)

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Sweep runs one expiry pass over invitations, placement requests and
// transfer requests. Meant to be hit by an external scheduler.
func (h *Handlers) Sweep(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	result, err := h.Sweeper.RunOnce(r.Context())
	if err != nil {
		h.log.InternalError("admin.sweep: pass failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
