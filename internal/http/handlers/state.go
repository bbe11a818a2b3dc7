package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

const (
	defaultGamesLimit = 20
	maxGamesLimit     = 100
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.Version,
	})
}

// текущий снимок сессии; ничего не меняет и никому не рассылает
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.State.Snapshot())
}

// последние завершенные партии из архива
func (h *Handler) ListGames(c *gin.Context) {
	if h.Games == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game archive disabled"})
		return
	}

	limit := defaultGamesLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxGamesLimit)
	}

	games, err := h.Games.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"games": games,
		"count": len(games),
	})
}

// одна партия из архива с PGN и историей оценок
func (h *Handler) GetGame(c *gin.Context) {
	if h.Games == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game archive disabled"})
		return
	}

	g, err := h.Games.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get game"})
		return
	}

	c.JSON(http.StatusOK, g)
}
