package httpapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hojyokin-go/internal/jgrants"
	"hojyokin-go/internal/localstore"
	"hojyokin-go/internal/metrics"
	"hojyokin-go/internal/model"
)

//go:embed web/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

const minKeywordRunes = 2

// Searcher is the slice of the JGrants client the handlers use.
type Searcher interface {
	Search(ctx context.Context, q model.SearchQuery) (jgrants.SearchResponse, error)
	Detail(ctx context.Context, id string) (jgrants.Detail, error)
}

// LocalIndex is the slice of the local dump store the handlers use.
type LocalIndex interface {
	Search(keyword, area string, openOnly bool) []localstore.Record
	Get(localID string) (localstore.Record, error)
}

type Handler struct {
	api     Searcher
	local   LocalIndex
	metrics *metrics.Metrics
	log     *slog.Logger
	index   indexData
}

func NewHandler(api Searcher, local LocalIndex, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		api:     api,
		local:   local,
		metrics: m,
		log:     log,
		index:   newIndexData(),
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", h.handleIndex)
	r.Post("/search", h.handleSearch)
	r.Get("/detail/{id}", h.handleDetail)
	r.Get("/health", h.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Post("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Get("/allocs", pprof.Handler("allocs").ServeHTTP)
		r.Get("/block", pprof.Handler("block").ServeHTTP)
		r.Get("/goroutine", pprof.Handler("goroutine").ServeHTTP)
		r.Get("/heap", pprof.Handler("heap").ServeHTTP)
		r.Get("/mutex", pprof.Handler("mutex").ServeHTTP)
		r.Get("/threadcreate", pprof.Handler("threadcreate").ServeHTTP)
	})
	return r
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, h.index); err != nil {
		h.log.Error("render index", "err", err)
	}
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.metrics.Searches.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}

	keyword := strings.TrimSpace(r.PostFormValue("keyword"))
	if keyword != "" && utf8.RuneCountInString(keyword) < minKeywordRunes {
		h.metrics.Searches.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "キーワードは2文字以上で入力してください")
		return
	}

	query := model.SearchQuery{
		Keyword:       keyword,
		TargetArea:    strings.TrimSpace(r.PostFormValue("target_area")),
		Employees:     strings.TrimSpace(r.PostFormValue("target_employees")),
		Purpose:       strings.TrimSpace(r.PostFormValue("use_purpose")),
		AcceptingOnly: r.PostFormValue("acceptance_only") != "",
		Sort:          formValueOr(r, "sort", "created_date"),
		Order:         formValueOr(r, "order", "DESC"),
	}
	if raw := strings.TrimSpace(r.PostFormValue("max_limit")); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			h.metrics.Searches.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, "上限金額の指定が不正です")
			return
		}
		query.MaxLimit = limit
	}

	resp, err := h.api.Search(r.Context(), query)
	if err != nil {
		h.metrics.Searches.WithLabelValues("upstream_error").Inc()
		h.log.Error("jgrants search failed", "err", err)
		writeError(w, http.StatusBadGateway, "補助金情報の取得に失敗しました")
		return
	}

	local := h.local.Search(keyword, query.TargetArea, query.AcceptingOnly)

	views := make([]subsidyView, 0, len(resp.Result)+len(local))
	for _, sub := range resp.Result {
		views = append(views, apiSubsidyView(sub))
	}
	for _, rec := range local {
		views = append(views, localSubsidyView(rec))
	}

	h.metrics.Searches.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"count":     resp.Metadata.Resultset.Count + len(local),
		"subsidies": views,
	})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if strings.HasPrefix(id, localstore.LocalIDPrefix) {
		rec, err := h.local.Get(id)
		if err != nil {
			h.metrics.Details.WithLabelValues("not_found").Inc()
			writeError(w, http.StatusNotFound, "補助金が見つかりませんでした")
			return
		}
		h.metrics.Details.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "subsidy": localDetailView(rec)})
		return
	}

	detail, err := h.api.Detail(r.Context(), id)
	switch {
	case errors.Is(err, jgrants.ErrInvalidID):
		h.metrics.Details.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "補助金IDの形式が不正です")
		return
	case err != nil:
		h.metrics.Details.WithLabelValues("upstream_error").Inc()
		h.log.Error("jgrants detail failed", "id", id, "err", err)
		writeError(w, http.StatusBadGateway, "補助金詳細の取得に失敗しました")
		return
	}

	h.metrics.Details.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "subsidy": apiDetailView(detail)})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.PostFormValue(key)); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
