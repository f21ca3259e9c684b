package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sodipas/negoce_backend/models"
)

func RegisterTruck(c *gin.Context) {
	var input models.NewTruck
	if !bindJSON(c, &input) {
		return
	}
	truck, err := models.RegisterTruck(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/trucks.go", "RegisterTruck", err)
		return
	}
	c.JSON(http.StatusCreated, truck)
}

type unloadRequest struct {
	Items []models.UnloadItem `json:"items" binding:"required"`
}

func UnloadTruck(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req unloadRequest
	if !bindJSON(c, &req) {
		return
	}
	truck, err := models.UnloadTruck(c.Request.Context(), id, req.Items)
	if err != nil {
		respondError(c, "controllers/trucks.go", "UnloadTruck", err)
		return
	}
	c.JSON(http.StatusOK, truck)
}

func GetTruck(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	truck, err := models.GetTruck(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/trucks.go", "GetTruck", err)
		return
	}
	c.JSON(http.StatusOK, truck)
}

func ListTrucks(c *gin.Context) {
	var hangarId *int
	if v, err := strconv.Atoi(c.Query("hangar_id")); err == nil {
		hangarId = &v
	}
	var status *models.TruckStatus
	if q := c.Query("status"); q != "" {
		s := models.TruckStatus(q)
		status = &s
	}
	trucks, err := models.ListTrucks(c.Request.Context(), hangarId, status)
	if err != nil {
		respondError(c, "controllers/trucks.go", "ListTrucks", err)
		return
	}
	c.JSON(http.StatusOK, trucks)
}

func GetHangarStocks(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	stocks, err := models.GetHangarStocks(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/trucks.go", "GetHangarStocks", err)
		return
	}
	c.JSON(http.StatusOK, stocks)
}
