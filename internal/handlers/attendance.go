package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/attendance"
	"github.com/ifrasafa/docree-project/internal/utils"
)

// AttendanceHandler exposes the session service over HTTP. Role checks live
// in the service, not here: the JWT role claim is display-level only.
type AttendanceHandler struct {
	svc *attendance.Service
}

func NewAttendanceHandler(svc *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

type OpenAttendanceRequest struct {
	DurationSeconds int `json:"durationSeconds" binding:"required,gt=0"`
}

type MarkAttendanceRequest struct {
	Name string `json:"name" binding:"required"`
	Date string `json:"date"`
}

func (h *AttendanceHandler) Open(c *gin.Context) {
	var req OpenAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request schema")
		return
	}

	actor := c.GetString("userId")
	duration := time.Duration(req.DurationSeconds) * time.Second
	if err := h.svc.Open(c.Request.Context(), actor, duration); err != nil {
		writeServiceError(c, err)
		return
	}

	snap, err := h.svc.Status(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, 200, snapshotJSON(snap))
}

func (h *AttendanceHandler) Close(c *gin.Context) {
	if err := h.svc.Close(c.Request.Context()); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, 200, gin.H{"status": "closed"})
}

func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request schema")
		return
	}

	date := req.Date
	if date == "" {
		date = h.svc.Today()
	}
	actor := c.GetString("userId")
	if err := h.svc.MarkPresent(c.Request.Context(), actor, date, req.Name); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, 200, gin.H{"date": date, "name": req.Name})
}

func (h *AttendanceHandler) Status(c *gin.Context) {
	snap, err := h.svc.Status(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, 200, snapshotJSON(snap))
}

func (h *AttendanceHandler) Roster(c *gin.Context) {
	date := c.Param("date")
	students, err := h.svc.Roster(c.Request.Context(), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, 200, gin.H{"date": date, "students": students})
}

func snapshotJSON(snap attendance.Snapshot) gin.H {
	return gin.H{
		"date":             snap.Date,
		"status":           snap.Status,
		"open":             snap.Open,
		"remainingSeconds": int(snap.Remaining / time.Second),
	}
}

func writeServiceError(c *gin.Context, err error) {
	var verr *attendance.ValidationError
	switch {
	case errors.Is(err, attendance.ErrUnauthenticated):
		utils.ErrorResponse(c, 401, "Unauthorized, no identity")
	case errors.Is(err, attendance.ErrUnauthorized):
		utils.ErrorResponse(c, 403, "Forbidden, wrong role for this action")
	case errors.Is(err, attendance.ErrSessionNotOpen):
		utils.ErrorResponse(c, 409, "No open attendance session")
	case errors.Is(err, attendance.ErrSessionExpired):
		utils.ErrorResponse(c, 410, "Attendance session has expired")
	case errors.Is(err, attendance.ErrAlreadyMarked):
		utils.ErrorResponse(c, 409, "Already marked present")
	case errors.As(err, &verr):
		utils.ErrorResponse(c, 400, verr.Error())
	case errors.Is(err, attendance.ErrRemoteUnavailable):
		utils.ErrorResponse(c, 503, "Attendance store unavailable")
	default:
		utils.ErrorResponse(c, 500, "Internal server error")
	}
}
