package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

func RecordPayment(c *gin.Context) {
	var input models.NewPayment
	if !bindJSON(c, &input) {
		return
	}
	payment, err := models.RecordPayment(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/payments.go", "RecordPayment", err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func GetPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	payment, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/payments.go", "GetPayment", err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func ListPayments(c *gin.Context) {
	var clientId *int
	if v, err := strconv.Atoi(c.Query("client_id")); err == nil {
		clientId = &v
	}
	payments, err := models.ListPayments(c.Request.Context(), clientId, utils.NilIfEmpty(c.Query("payment_number")))
	if err != nil {
		respondError(c, "controllers/payments.go", "ListPayments", err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
