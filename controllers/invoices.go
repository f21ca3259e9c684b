package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

func CreateInvoice(c *gin.Context) {
	var input models.NewInvoice
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := models.CreateInvoice(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/invoices.go", "CreateInvoice", err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func GetInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/invoices.go", "GetInvoice", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoice":   invoice,
		"status":    invoice.Status(),
		"remaining": invoice.Remaining(),
	})
}

func ListInvoices(c *gin.Context) {
	var clientId *int
	if v, err := strconv.Atoi(c.Query("client_id")); err == nil {
		clientId = &v
	}
	invoices, err := models.ListInvoices(c.Request.Context(), clientId, utils.NilIfEmpty(c.Query("invoice_number")))
	if err != nil {
		respondError(c, "controllers/invoices.go", "ListInvoices", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
