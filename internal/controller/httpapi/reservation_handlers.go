package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
)

type bookRequest struct {
	CustomerID int64 `json:"customer_id" binding:"required"`
	WalkerID   int64 `json:"walker_id" binding:"required"`
	ServiceID  int64 `json:"service_id" binding:"required"`
	DogID      int64 `json:"dog_id" binding:"required"`
	SlotID     int64 `json:"slot_id" binding:"required"`
}

func (a *API) book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	res, err := a.reservations.Book(c.Request.Context(), principalFrom(c),
		req.CustomerID, req.WalkerID, req.ServiceID, req.DogID, req.SlotID)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reservation": res})
}

func (a *API) confirm(c *gin.Context) {
	a.transition(c, a.reservations.Confirm)
}

func (a *API) complete(c *gin.Context) {
	a.transition(c, a.reservations.Complete)
}

func (a *API) cancel(c *gin.Context) {
	a.transition(c, a.reservations.Cancel)
}

func (a *API) transition(c *gin.Context, op func(ctx context.Context, p model.Principal, id int64) (*model.Reservation, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := op(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

func (a *API) listReservations(c *gin.Context) {
	principal := principalFrom(c)

	var (
		list []*model.Reservation
		err  error
	)
	switch scope := c.DefaultQuery("scope", "active"); scope {
	case "active":
		list, err = a.reservations.ListActive(c.Request.Context(), principal)
	case "history":
		list, err = a.reservations.ListHistory(c.Request.Context(), principal)
	default:
		a.respondError(c, apperr.Validation("unknown scope %q", scope))
		return
	}
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

func (a *API) listForCustomer(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := a.reservations.ListForCustomer(c.Request.Context(), principalFrom(c), customerID)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

func (a *API) listForWalker(c *gin.Context) {
	walkerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := a.reservations.ListForWalker(c.Request.Context(), principalFrom(c), walkerID)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": list})
}
