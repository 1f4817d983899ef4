package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
)

const dateLayout = "2006-01-02"

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

type generateSlotsRequest struct {
	RangeStart      time.Time `json:"range_start" binding:"required"`
	RangeEnd        time.Time `json:"range_end" binding:"required"`
	IntervalMinutes int       `json:"interval_minutes" binding:"required"`
}

func (a *API) generateSlots(c *gin.Context) {
	walkerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req generateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	slots, err := a.availability.GenerateSlots(c.Request.Context(), principalFrom(c),
		walkerID, req.RangeStart, req.RangeEnd, req.IntervalMinutes)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slots": slots, "created": len(slots)})
}

func (a *API) listSlots(c *gin.Context) {
	walkerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			a.respondError(c, apperr.Validation("invalid date %q, want YYYY-MM-DD", raw))
			return
		}
		day = &parsed
	}
	includePast := c.Query("include_past") == "true"

	slots, err := a.availability.ListSlots(c.Request.Context(), walkerID, day, includePast)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

type setSlotStateRequest struct {
	State model.SlotState `json:"state" binding:"required"`
}

func (a *API) setSlotState(c *gin.Context) {
	slotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req setSlotStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	slot, err := a.availability.SetSlotState(c.Request.Context(), principalFrom(c), slotID, req.State)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (a *API) deleteSlot(c *gin.Context) {
	slotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := a.availability.DeleteSlot(c.Request.Context(), principalFrom(c), slotID); err != nil {
		a.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
