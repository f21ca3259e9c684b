package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sodipas/negoce_backend/models"
)

func ApplyCageotMovement(c *gin.Context) {
	var input models.NewCageotMovement
	if !bindJSON(c, &input) {
		return
	}
	movement, err := models.ApplyCageotMovement(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/cageots.go", "ApplyCageotMovement", err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

type cageotPreviewRequest struct {
	ClientId  int                    `json:"client_id" binding:"required"`
	Direction models.CageotDirection `json:"direction" binding:"required"`
	Quantity  int                    `json:"quantity" binding:"required"`
}

func PreviewCageotMovement(c *gin.Context) {
	var req cageotPreviewRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := models.GetClient(c.Request.Context(), req.ClientId)
	if err != nil {
		respondError(c, "controllers/cageots.go", "PreviewCageotMovement", err)
		return
	}
	balance, err := models.PreviewCageotBalance(client, req.Direction, req.Quantity)
	if err != nil {
		respondError(c, "controllers/cageots.go", "PreviewCageotMovement", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"current_balance": client.Cageots,
		"new_balance":     balance,
	})
}

func ListCageotMovements(c *gin.Context) {
	var clientId *int
	if v, err := strconv.Atoi(c.Query("client_id")); err == nil {
		clientId = &v
	}
	movements, err := models.ListCageotMovements(c.Request.Context(), clientId)
	if err != nil {
		respondError(c, "controllers/cageots.go", "ListCageotMovements", err)
		return
	}
	c.JSON(http.StatusOK, movements)
}
