package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/grubhouse/storefront-api/internal/service"
)

// StoreHandler handles store locator requests.
type StoreHandler struct {
	stores *service.StoreService
	log    *slog.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(stores *service.StoreService, log *slog.Logger) *StoreHandler {
	return &StoreHandler{
		stores: stores,
		log:    log,
	}
}

// ListStores handles GET /api/stores
// Optional query parameters: city, zipCode, latitude, longitude.
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	query := service.StoreQuery{
		City:    r.URL.Query().Get("city"),
		ZipCode: r.URL.Query().Get("zipCode"),
	}
	if lat, ok := parseFloatParam(r, "latitude"); ok {
		if lng, ok := parseFloatParam(r, "longitude"); ok {
			query.Latitude = &lat
			query.Longitude = &lng
		}
	}

	stores, err := h.stores.ListStores(r.Context(), query)
	if err != nil {
		h.log.Error("failed to list stores", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"stores": stores}, h.log)
}

func parseFloatParam(r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
