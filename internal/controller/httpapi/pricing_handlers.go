package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aam9063/dogwalk/internal/apperr"
)

func (a *API) getPrice(c *gin.Context) {
	walkerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	serviceID, ok := pathID(c, "serviceID")
	if !ok {
		return
	}

	price, err := a.pricing.GetPrice(c.Request.Context(), walkerID, serviceID)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

type setPriceRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Currency    string `json:"currency"`
}

func (a *API) setPrice(c *gin.Context) {
	walkerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	serviceID, ok := pathID(c, "serviceID")
	if !ok {
		return
	}

	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	price, err := a.pricing.SetPrice(c.Request.Context(), principalFrom(c),
		walkerID, serviceID, req.AmountCents, req.Currency)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

func (a *API) listPrices(c *gin.Context) {
	walkerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	prices, err := a.pricing.ListPrices(c.Request.Context(), walkerID)
	if err != nil {
		a.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}
