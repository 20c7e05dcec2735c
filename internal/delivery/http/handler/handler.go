package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/delivery/http/request"
	"github.com/user/deals-scraper/internal/delivery/http/response"
	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/internal/usecase"
)

// Pinger is a backing service checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Defaults are the server-side values used when neither the request nor the
// saved settings provide one.
type Defaults struct {
	SearchURL     string
	ChromePath    string
	Zip           string
	RankBy        entity.RankBy
	MarginOfError int
}

// Deps groups the handler's collaborators. Settings, Runs and Pingers are optional.
type Deps struct {
	Jobs     *usecase.JobManager
	Runner   usecase.Runner
	Lists    repository.ListRepository
	Settings repository.SettingsRepository
	Runs     repository.RunRepository
	Pingers  map[string]Pinger
	Defaults Defaults
	Logger   *zap.Logger
}

type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for name, p := range h.deps.Pingers {
		if err := p.Ping(ctx); err != nil {
			status[name] = "unhealthy"
			healthy = false
			h.deps.Logger.Error("health check failed", zap.String("service", name), zap.Error(err))
		} else {
			status[name] = "healthy"
		}
	}
	if !healthy {
		status["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleGetList(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !entity.ValidListName(name) {
		h.writeJSONError(w, "Unknown list", http.StatusNotFound)
		return
	}
	text, err := h.deps.Lists.Load(r.Context(), name)
	if err != nil {
		h.deps.Logger.Error("failed to load list", zap.String("list", name), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.ListResponse{Name: name, Text: text})
}

func (h *Handler) HandleSaveList(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !entity.ValidListName(name) {
		h.writeJSONError(w, "Unknown list", http.StatusNotFound)
		return
	}
	var req request.SaveListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.deps.Lists.Save(r.Context(), name, req.Text); err != nil {
		h.deps.Logger.Error("failed to save list", zap.String("list", name), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.ListResponse{Name: name, Text: req.Text})
}

func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.currentSettings(r.Context()))
}

func (h *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if h.deps.Settings == nil {
		h.writeJSONError(w, "Settings store is not configured", http.StatusServiceUnavailable)
		return
	}
	var req request.SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s := &entity.Settings{
		ChromePath:    req.ChromePath,
		Zip:           req.Zip,
		RankBy:        entity.RankBy(req.RankBy),
		MarginOfError: req.MarginOfError,
	}
	if !s.RankBy.Valid() {
		h.writeJSONError(w, `rank_by must be "Item" or "Name"`, http.StatusBadRequest)
		return
	}
	if s.MarginOfError < 0 {
		h.writeJSONError(w, usecase.MsgNegativeMargin, http.StatusBadRequest)
		return
	}
	if err := h.deps.Settings.Save(r.Context(), s); err != nil {
		h.deps.Logger.Error("failed to save settings", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.StatusResponse{Status: "Settings saved", Level: entity.LevelSuccess})
}

func (h *Handler) HandleCheckChrome(w http.ResponseWriter, r *http.Request) {
	var req request.CheckChromeRequest
	if err := decodeOptional(r, &req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res := h.deps.Runner.CheckChrome(req.Path)
	h.writeJSON(w, http.StatusOK, response.StatusResponse{Status: res.Status, Level: res.Level})
}

func (h *Handler) HandleStartScrape(w http.ResponseWriter, r *http.Request) {
	var req request.StartScrapeRequest
	if err := decodeOptional(r, &req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	runReq, err := h.buildRunRequest(r.Context(), &req)
	if err != nil {
		h.deps.Logger.Error("failed to prepare scrape", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.deps.Jobs.Start(runReq); err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusAccepted, response.StartScrapeResponse{Message: "Scrape started"})
}

func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	st := h.deps.Jobs.Status()
	h.writeJSON(w, http.StatusOK, response.ProgressResponse{
		Running:    st.Running,
		Progress:   st.Progress,
		Result:     st.Result,
		LastReport: st.LastReport,
	})
}

func (h *Handler) HandleCancelScrape(w http.ResponseWriter, r *http.Request) {
	if !h.deps.Jobs.Cancel() {
		h.writeJSONError(w, "No scrape is running", http.StatusConflict)
		return
	}
	h.writeJSON(w, http.StatusAccepted, response.StartScrapeResponse{Message: "Stopping"})
}

func (h *Handler) HandleDownloadReport(w http.ResponseWriter, r *http.Request) {
	st := h.deps.Jobs.Status()
	if st.LastReport == "" {
		h.writeJSONError(w, "No report available", http.StatusNotFound)
		return
	}
	path := st.LastReport
	if _, err := os.Stat(path); err != nil {
		h.writeJSONError(w, "Report file is missing", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filepath.Base(path)))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.deps.Runs == nil {
		h.writeJSON(w, http.StatusOK, response.RunsResponse{Runs: []*entity.RunRecord{}})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			h.writeJSONError(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := h.deps.Runs.RecentRuns(r.Context(), limit)
	if err != nil {
		h.deps.Logger.Error("failed to list runs", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []*entity.RunRecord{}
	}
	h.writeJSON(w, http.StatusOK, response.RunsResponse{Runs: runs})
}

// currentSettings overlays saved settings on the server defaults.
func (h *Handler) currentSettings(ctx context.Context) *entity.Settings {
	d := h.deps.Defaults
	s := &entity.Settings{
		ChromePath:    d.ChromePath,
		Zip:           d.Zip,
		RankBy:        d.RankBy,
		MarginOfError: d.MarginOfError,
	}
	if h.deps.Settings == nil {
		return s
	}
	saved, err := h.deps.Settings.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.deps.Logger.Warn("failed to load settings, using defaults", zap.Error(err))
		}
		return s
	}
	if saved.ChromePath != "" {
		s.ChromePath = saved.ChromePath
	}
	if saved.Zip != "" {
		s.Zip = saved.Zip
	}
	if saved.RankBy.Valid() {
		s.RankBy = saved.RankBy
	}
	s.MarginOfError = saved.MarginOfError
	return s
}

func (h *Handler) buildRunRequest(ctx context.Context, req *request.StartScrapeRequest) (*entity.RunRequest, error) {
	s := h.currentSettings(ctx)
	run := &entity.RunRequest{
		SearchURL:     h.deps.Defaults.SearchURL,
		ChromePath:    s.ChromePath,
		Zip:           s.Zip,
		RankBy:        s.RankBy,
		MarginOfError: s.MarginOfError,
	}
	if req.SearchURL != "" {
		run.SearchURL = req.SearchURL
	}
	if req.ChromePath != nil {
		run.ChromePath = *req.ChromePath
	}
	if req.Zip != "" {
		run.Zip = req.Zip
	}
	if req.RankBy != "" {
		run.RankBy = entity.RankBy(req.RankBy)
	}
	if req.MarginOfError != nil {
		run.MarginOfError = *req.MarginOfError
	}

	var err error
	if req.ShoppingList != nil {
		run.ShoppingListText = *req.ShoppingList
	} else if run.ShoppingListText, err = h.deps.Lists.Load(ctx, entity.ShoppingList); err != nil {
		return nil, fmt.Errorf("load shopping list: %w", err)
	}
	if req.Blacklist != nil {
		run.BlacklistText = *req.Blacklist
	} else if run.BlacklistText, err = h.deps.Lists.Load(ctx, entity.ItemBlacklist); err != nil {
		return nil, fmt.Errorf("load blacklist: %w", err)
	}
	return run, nil
}

// decodeOptional decodes a JSON body, treating an empty body as the zero value.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.deps.Logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
