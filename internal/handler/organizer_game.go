package handler // organizer-facing game catalog endpoints

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
)

// gameResp is the JSON shape returned for a catalog entry.
type gameResp struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	Complexity string `json:"complexity"`
	MinPlayers uint32 `json:"min_players"`
	MaxPlayers uint32 `json:"max_players"`
}

func toGameResp(g *model.Game) gameResp {
	return gameResp{ID: g.ID, Title: g.Title, Complexity: g.Complexity, MinPlayers: g.MinPlayers, MaxPlayers: g.MaxPlayers}
}

func validComplexity(s string) bool {
	switch s {
	case model.GameComplexityLight, model.GameComplexityMedium, model.GameComplexityHeavy:
		return true
	}
	return false
}

// CreateGame handles POST /v1/games.
func (h *OrganizerHandler) CreateGame(c echo.Context) error {
	var body struct {
		Title      string `json:"title"`
		Complexity string `json:"complexity"`
		MinPlayers uint32 `json:"min_players"`
		MaxPlayers uint32 `json:"max_players"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	complexity := strings.ToUpper(strings.TrimSpace(body.Complexity))
	if !validComplexity(complexity) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complexity must be LIGHT, MEDIUM or HEAVY"})
	}
	if body.MinPlayers == 0 || body.MaxPlayers < body.MinPlayers {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid player range"})
	}
	game := &model.Game{
		Title:      title,
		Complexity: complexity,
		MinPlayers: body.MinPlayers,
		MaxPlayers: body.MaxPlayers,
	}
	if err := h.Games.Create(c.Request().Context(), game); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create game"})
	}
	return c.JSON(http.StatusCreated, toGameResp(game))
}

// ListGames handles GET /v1/games.
func (h *OrganizerHandler) ListGames(c echo.Context) error {
	items, err := h.Games.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]gameResp, 0, len(items))
	for _, g := range items {
		out = append(out, toGameResp(g))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateGame handles PUT /v1/games/:id.
func (h *OrganizerHandler) UpdateGame(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Title      *string `json:"title"`
		Complexity *string `json:"complexity"`
		MinPlayers *uint32 `json:"min_players"`
		MaxPlayers *uint32 `json:"max_players"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	game, err := h.Games.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrGameNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Title != nil {
		if t := strings.TrimSpace(*body.Title); t != "" {
			game.Title = t
		}
	}
	if body.Complexity != nil {
		cx := strings.ToUpper(strings.TrimSpace(*body.Complexity))
		if !validComplexity(cx) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "complexity must be LIGHT, MEDIUM or HEAVY"})
		}
		game.Complexity = cx
	}
	if body.MinPlayers != nil {
		game.MinPlayers = *body.MinPlayers
	}
	if body.MaxPlayers != nil {
		game.MaxPlayers = *body.MaxPlayers
	}
	if game.MinPlayers == 0 || game.MaxPlayers < game.MinPlayers {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid player range"})
	}
	if err := h.Games.Update(ctx, game); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toGameResp(game))
}
