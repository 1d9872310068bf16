package handler

import (
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// StartSession opens a shift at the branch, or returns the already-open
// one. Idempotent.
func (h *SessionsHandler) StartSession(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)
	resp, err := h.svc.StartSession(c.Request.Context(), userID, branchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CurrentSession returns the caller's open session at the branch, or 204
// when none is open.
func (h *SessionsHandler) CurrentSession(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)
	resp, err := h.svc.Current(c.Request.Context(), userID, branchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CloseSession closes the open session at the given branch, or every open
// session of the caller when no branch is supplied. Idempotent.
func (h *SessionsHandler) CloseSession(c *gin.Context) {
	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido"))
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if req.BranchID == "" {
		closed, err := h.svc.CloseAllForUser(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"closed": closed})
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.CloseSession(c.Request.Context(), userID, branchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}
