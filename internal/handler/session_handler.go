package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yu47362/sc2002InternshipApplication/internal/session"
	"github.com/yu47362/sc2002InternshipApplication/pkg/response"
)

// SessionHandler exposes the session registry to staff.
type SessionHandler struct {
	sessions *session.Registry
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(sessions *session.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List godoc
// @Summary List active sessions
// @Description Returns a snapshot of every live session in the registry
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.sessions.Snapshot())
}

// Revoke godoc
// @Summary Revoke a session
// @Description Forcibly closes another actor's session
// @Tags Sessions
// @Produce json
// @Param id path string true "Actor ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/sessions/{id} [delete]
func (h *SessionHandler) Revoke(c *gin.Context) {
	if !h.sessions.Remove(c.Param("id")) {
		response.JSON(c, http.StatusOK, nil, "no live session for that actor")
		return
	}
	response.NoContent(c)
}
