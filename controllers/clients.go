package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func CreateClient(c *gin.Context) {
	var input models.NewClient
	if !bindJSON(c, &input) {
		return
	}
	client, err := models.CreateClient(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/clients.go", "CreateClient", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func UpdateClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewClient
	if !bindJSON(c, &input) {
		return
	}
	client, err := models.UpdateClient(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "controllers/clients.go", "UpdateClient", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func DeleteClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := models.DeleteClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/clients.go", "DeleteClient", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func GetClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := models.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/clients.go", "GetClient", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client": client,
		"status": client.Status(),
	})
}

func ListClients(c *gin.Context) {
	clients, err := models.ListClients(c.Request.Context(), utils.NilIfEmpty(c.Query("name")))
	if err != nil {
		respondError(c, "controllers/clients.go", "ListClients", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

type toggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func ToggleActiveClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req toggleActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := models.ToggleActiveClient(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		respondError(c, "controllers/clients.go", "ToggleActiveClient", err)
		return
	}
	c.JSON(http.StatusOK, client)
}
