package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sodipas/negoce_backend/models"
)

func CreateHangar(c *gin.Context) {
	var input models.NewHangar
	if !bindJSON(c, &input) {
		return
	}
	hangar, err := models.CreateHangar(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/hangars.go", "CreateHangar", err)
		return
	}
	c.JSON(http.StatusCreated, hangar)
}

func UpdateHangar(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewHangar
	if !bindJSON(c, &input) {
		return
	}
	hangar, err := models.UpdateHangar(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "controllers/hangars.go", "UpdateHangar", err)
		return
	}
	c.JSON(http.StatusOK, hangar)
}

func GetHangar(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	hangar, err := models.GetHangar(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/hangars.go", "GetHangar", err)
		return
	}
	c.JSON(http.StatusOK, hangar)
}

func ListHangars(c *gin.Context) {
	hangars, err := models.ListHangars(c.Request.Context())
	if err != nil {
		respondError(c, "controllers/hangars.go", "ListHangars", err)
		return
	}
	c.JSON(http.StatusOK, hangars)
}
