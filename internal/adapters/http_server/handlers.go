package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
)

// Handlers exposes the Store to the UI over JSON. The Store itself stays
// the module boundary; nothing here holds state of its own.
type Handlers struct{ Store *app.Store }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/etablissements", h.list)
	s.mux.Post("/v1/etablissements", h.create)
	s.mux.Get("/v1/etablissements/{id}", h.get)
	s.mux.Patch("/v1/etablissements/{id}", h.update)
	s.mux.Delete("/v1/etablissements/{id}", h.delete)
	s.mux.Post("/v1/etablissements/{id}/reconcile", h.reconcile)
	s.mux.Get("/v1/stats", h.stats)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON body failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

type listResponse struct {
	Items   []domain.Establishment `json:"items"`
	Loading bool                   `json:"loading"`
	Error   string                 `json:"error,omitempty"`
}

// list serves the cache snapshot; ?q= and ?status= run the derived search
// view over it instead.
func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")

	var items []domain.Establishment
	if q != "" || status != "" {
		items = h.Store.Search(q, status)
	} else {
		items = h.Store.Snapshot()
	}
	resp := listResponse{Items: items, Loading: h.Store.Loading(), Error: h.Store.Err()}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write list body")
	}
}

func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	e := h.Store.FetchByID(r.Context(), id)
	if e == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "establishment not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var form domain.EstablishmentForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	created := h.Store.Create(r.Context(), form)
	if created == nil {
		writeProblem(w, http.StatusBadGateway, "Create Failed", "remote store rejected the insert")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var patch domain.EstablishmentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	updated := h.Store.Update(r.Context(), id, patch)
	if updated == nil {
		writeProblem(w, http.StatusBadGateway, "Update Failed", "remote store rejected the update")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if !h.Store.Delete(r.Context(), id) {
		// guard refusal and remote failure look the same to the caller
		writeProblem(w, http.StatusConflict, "Delete Refused", "active reservations or remote failure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) reconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	// The recount outlives the 202, so it runs detached from the request
	// context.
	go h.Store.ReconcileStats(context.WithoutCancel(r.Context()), id)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Stats())
}
