// Package api exposes the collected properties over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Beigelman/house-crawler/internal/collect"
	"github.com/Beigelman/house-crawler/internal/models"
	"github.com/Beigelman/house-crawler/internal/storage"
)

// Collector runs a full collection over every site.
type Collector interface {
	Collect(ctx context.Context) (*collect.Result, error)
}

// Handler serves the property store and triggers collections.
type Handler struct {
	collector Collector
	store     storage.Store
	log       logrus.FieldLogger
}

// NewHandler creates a Handler. store receives the records of every scrape.
func NewHandler(collector Collector, store storage.Store, log logrus.FieldLogger) *Handler {
	return &Handler{collector: collector, store: store, log: log}
}

// Router registers every route on a new mux router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/properties", h.handleProperties).Methods(http.MethodGet)
	r.HandleFunc("/api/scrape", h.handleScrape).Methods(http.MethodPost)
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.store.All(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Error listing properties")
		http.Error(w, "error listing properties", http.StatusInternalServerError)
		return
	}
	h.writeProperties(w, http.StatusOK, props)
}

type scrapeResponse struct {
	Total   int               `json:"total"`
	PerSite map[string]int    `json:"per_site"`
	New     int               `json:"new"`
	Imoveis []models.Property `json:"imoveis"`
}

func (h *Handler) handleScrape(w http.ResponseWriter, r *http.Request) {
	res, err := h.collector.Collect(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Scrape failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	inserted, err := h.store.InsertNew(r.Context(), res.Properties)
	if err != nil {
		h.log.WithError(err).Error("Error storing properties")
		http.Error(w, "error storing properties", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, scrapeResponse{
		Total:   len(res.Properties),
		PerSite: res.PerSite,
		New:     len(inserted),
		Imoveis: res.Properties,
	})
}

func (h *Handler) writeProperties(w http.ResponseWriter, status int, props []models.Property) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := storage.EncodeJSON(w, props); err != nil {
		h.log.WithError(err).Warn("Error writing response")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.log.WithError(err).Warn("Error writing response")
	}
}
