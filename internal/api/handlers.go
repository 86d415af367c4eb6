package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yamajodo/linkdir/internal/directory"
)

// overviewLimit caps the top and recent listings on the overview and
// category detail payloads.
const overviewLimit = 12

type submitRequest struct {
	URL string `json:"url"`
}

type clickRequest struct {
	URL string `json:"url"`
}

type rateRequest struct {
	URL    string `json:"url"`
	Rating int    `json:"rating"`
}

func (s *Server) submitURL(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}
	normalized, err := directory.NormalizeURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	if s.blocked.IsBlocked(directory.Domain(normalized)) {
		writeError(w, http.StatusUnprocessableEntity, "domain is blocked")
		return
	}
	dup, err := s.guard.IsDuplicate(r.Context(), normalized)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "duplicate check failed")
		return
	}
	if dup {
		writeError(w, http.StatusConflict, directory.ErrDuplicateURL.Error())
		return
	}
	if err := s.queue.Enqueue(r.Context(), normalized); err != nil {
		s.logger.Error("enqueue failed", zap.String("url", normalized), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "enqueue failed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "url": normalized})
}

func (s *Server) recordClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}
	normalized, err := directory.NormalizeURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	if err := s.store.RecordClick(r.Context(), normalized); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			writeError(w, http.StatusNotFound, "url not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "record click failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) recordRating(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}
	normalized, err := directory.NormalizeURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	rating, err := s.store.RecordRating(r.Context(), normalized, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		case errors.Is(err, directory.ErrNotFound):
			writeError(w, http.StatusNotFound, "url not found")
		default:
			writeError(w, http.StatusInternalServerError, "record rating failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"rating": rating})
}

func (s *Server) listURLs(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.store.List(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"urls": entries})
}

func (s *Server) paginateURLs(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = n
	}
	result, err := s.store.Paginate(
		r.Context(),
		page,
		directory.PerPage,
		r.URL.Query().Get("category"),
		r.URL.Query().Get("domain"),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "paginate failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	entries, err := s.store.Search(
		r.Context(),
		query,
		r.URL.Query().Get("category"),
		r.URL.Query().Get("domain"),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": entries})
}

func (s *Server) categoryDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	description, err := s.store.CategoryDescription(r.Context(), name)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "category lookup failed")
		return
	}
	top, err := s.store.List(r.Context(), directory.ListOptions{
		OrderBy:  directory.OrderByClicks,
		Limit:    overviewLimit,
		Category: name,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "category lookup failed")
		return
	}
	recent, err := s.store.List(r.Context(), directory.ListOptions{
		OrderBy:  directory.OrderByRecent,
		Limit:    overviewLimit,
		Category: name,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "category lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        name,
		"description": description,
		"top_urls":    top,
		"recent_urls": recent,
	})
}

func (s *Server) domainDetail(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	count, err := s.store.DomainCount(r.Context(), domain)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "domain lookup failed")
		return
	}
	urls, err := s.store.List(r.Context(), directory.ListOptions{
		OrderBy: directory.OrderByClicks,
		Limit:   directory.PerPage,
		Domain:  domain,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "domain lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"domain": domain,
		"count":  count,
		"urls":   urls,
	})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list categories failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) popularDomains(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	domains, err := s.store.PopularDomains(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list domains failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"domains": domains})
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	top, err := s.store.List(ctx, directory.ListOptions{OrderBy: directory.OrderByClicks, Limit: overviewLimit})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "overview failed")
		return
	}
	recent, err := s.store.List(ctx, directory.ListOptions{OrderBy: directory.OrderByRecent, Limit: overviewLimit})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "overview failed")
		return
	}
	total, err := s.store.TotalCount(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "overview failed")
		return
	}
	domains, err := s.store.PopularDomains(ctx, 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "overview failed")
		return
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "overview failed")
		return
	}
	writeJSON(w, http.StatusOK, directory.Overview{
		Top:            top,
		Recent:         recent,
		TotalURLs:      total,
		PopularDomains: domains,
		Categories:     categories,
	})
}

func listOptionsFromQuery(r *http.Request) (directory.ListOptions, error) {
	opts := directory.ListOptions{
		OrderBy:  directory.OrderByClicks,
		Category: r.URL.Query().Get("category"),
		Domain:   r.URL.Query().Get("domain"),
	}
	if raw := r.URL.Query().Get("order"); raw != "" {
		order := directory.OrderBy(raw)
		if !order.Valid() {
			return directory.ListOptions{}, errors.New("unknown order")
		}
		opts.OrderBy = order
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return directory.ListOptions{}, errors.New("limit must be a positive integer")
		}
		opts.Limit = n
	}
	return opts, nil
}
