package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// itemCategories is the full catalog listing order when no category
// filter is given.
var itemCategories = []string{"physical", "magic", "defense", "boots", "support"}

// AdminHandler exposes the reference-data and analytics read surface.
type AdminHandler struct {
	*Handler
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(base *Handler) *AdminHandler {
	return &AdminHandler{Handler: base}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/champion/{name}", h.GetChampion)
		r.Get("/item/{name}", h.GetItem)
		r.Get("/items", h.ListItems)
		r.Get("/matchup", h.GetMatchup)
		r.Get("/session/{id}/turns", h.GetSessionTurns)
		r.Get("/session/{id}/analysis", h.GetSessionAnalysis)
		r.Get("/turns", h.GetRecentTurns)
	})
}

// GetChampion returns champion reference data with abilities and the
// latest winrate snapshot merged in.
func (h *AdminHandler) GetChampion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	info, err := h.repo.ChampionInfo(r.Context(), name)
	if err != nil {
		FailErr(w, err)
		return
	}
	if info == nil {
		Fail(w, http.StatusNotFound, domain.CodeChampionNotFound,
			fmt.Sprintf("Champion %q not found", name))
		return
	}

	payload := map[string]any{"champion": info}
	if abilities, err := h.repo.ChampionAbilities(r.Context(), name); err == nil && len(abilities) > 0 {
		payload["abilities"] = abilities
	}
	if winrate, err := h.repo.ChampionWinrate(r.Context(), name, r.URL.Query().Get("position")); err == nil && winrate != nil {
		payload["winrate"] = winrate
	}
	OK(w, payload)
}

// GetItem returns one item by name.
func (h *AdminHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	item, err := h.repo.ItemInfo(r.Context(), name)
	if err != nil {
		FailErr(w, err)
		return
	}
	if item == nil {
		Fail(w, http.StatusNotFound, domain.CodeItemNotFound,
			fmt.Sprintf("Item %q not found", name))
		return
	}
	OK(w, item)
}

// ListItems lists items, optionally filtered by category.
func (h *AdminHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var items []domain.Item
	if category != "" {
		found, err := h.repo.ItemsByCategory(r.Context(), category, 50)
		if err != nil {
			FailErr(w, err)
			return
		}
		items = found
	} else {
		for _, cat := range itemCategories {
			found, err := h.repo.ItemsByCategory(r.Context(), cat, 20)
			if err != nil {
				FailErr(w, err)
				return
			}
			items = append(items, found...)
		}
	}

	OK(w, map[string]any{"items": items, "count": len(items)})
}

// GetMatchup returns curated matchup tips for champion vs enemy.
func (h *AdminHandler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	champion := r.URL.Query().Get("champion")
	enemy := r.URL.Query().Get("enemy")
	if champion == "" || enemy == "" {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "champion and enemy are required")
		return
	}

	tips, err := h.repo.MatchupTips(r.Context(), champion, enemy, r.URL.Query().Get("lane"))
	if err != nil {
		FailErr(w, err)
		return
	}
	if tips == nil {
		Fail(w, http.StatusNotFound, domain.CodeChampionNotFound,
			fmt.Sprintf("No matchup data for %s vs %s", champion, enemy))
		return
	}
	OK(w, tips)
}

// GetSessionTurns returns the durable turn log for one session.
func (h *AdminHandler) GetSessionTurns(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	turns, err := h.repo.SessionTurns(r.Context(), sessionID, queryLimit(r, 50))
	if err != nil {
		FailErr(w, err)
		return
	}
	OK(w, map[string]any{"session_id": sessionID, "turns": turns})
}

// GetSessionAnalysis returns the enemy-composition report for a live session.
func (h *AdminHandler) GetSessionAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.AnalyzeSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		FailErr(w, err)
		return
	}
	OK(w, report)
}

// GetRecentTurns returns the most recent turns across all sessions.
func (h *AdminHandler) GetRecentTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.repo.RecentTurns(r.Context(), queryLimit(r, 50))
	if err != nil {
		FailErr(w, err)
		return
	}
	OK(w, map[string]any{"turns": turns})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 500 {
		return fallback
	}
	return n
}
