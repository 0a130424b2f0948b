// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
)

const (
	defaultLimit = 60
	maxLimit     = 500
)

var errBadQuery = errors.New("bad query parameter")

// successEnvelope wraps every successful response.
type successEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type handler struct {
	catalog Catalog
	logger  *zap.Logger
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	snapshot := h.catalog.Snapshot()
	if snapshot == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "loading"})

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"lang":       snapshot.Lang,
		"entries":    snapshot.Len(),
		"from_cache": snapshot.FromCache,
		"loaded_at":  snapshot.LoadedAt,
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	view, offset, limit, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())

		return
	}

	result, err := h.catalog.Search(view, offset, limit)
	if err != nil {
		h.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, successEnvelope{Data: result})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.catalog.Show(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, successEnvelope{Data: entry})
}

func (h *handler) attributes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, successEnvelope{Data: domain.ValuesResult{Kind: "attributes", Values: h.catalog.Attributes()}})
}

func (h *handler) creators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, successEnvelope{Data: domain.ValuesResult{Kind: "creators", Values: h.catalog.Creators()}})
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrEmptyDataset), errors.Is(err, domain.ErrSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		h.logger.Error("api request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// parseQuery maps ?q=&attribute=&creator=&favorites=&order=&random=&limit=&offset=
// to a view state and a page.
func parseQuery(values url.Values) (catalog.ViewState, int, int, error) {
	view := catalog.NewViewState().WithQuery(values.Get("q"))
	view.Attribute = values.Get("attribute")
	view.Creator = values.Get("creator")

	var err error

	if view.FavoritesOnly, err = parseBool(values, "favorites"); err != nil {
		return view, 0, 0, err
	}

	if view.RandomMode, err = parseBool(values, "random"); err != nil {
		return view, 0, 0, err
	}

	switch values.Get("order") {
	case "", "asc":
		view.SortAscending = true
	case "desc":
		view.SortAscending = false
	default:
		return view, 0, 0, fmt.Errorf("%w: order must be asc or desc", errBadQuery)
	}

	limit, err := parseInt(values, "limit", defaultLimit)
	if err != nil {
		return view, 0, 0, err
	}

	offset, err := parseInt(values, "offset", 0)
	if err != nil {
		return view, 0, 0, err
	}

	if limit == 0 || limit > maxLimit {
		limit = maxLimit
	}

	return view, offset, limit, nil
}

func parseBool(values url.Values, key string) (bool, error) {
	raw := values.Get(key)
	if raw == "" {
		return false, nil
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", errBadQuery, key, raw)
	}

	return parsed, nil
}

func parseInt(values url.Values, key string, fallback int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, key, raw)
	}

	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: message, Code: code})
}
