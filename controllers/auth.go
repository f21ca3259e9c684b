package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sodipas/negoce_backend/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	info, err := models.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, "controllers/auth.go", "Login", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func CreateUser(c *gin.Context) {
	var input models.NewUser
	if !bindJSON(c, &input) {
		return
	}
	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/auth.go", "CreateUser", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func ListUsers(c *gin.Context) {
	users, err := models.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, "controllers/auth.go", "ListUsers", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
