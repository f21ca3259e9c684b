package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
)

// respondError maps the ledger error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, moduleName string, funcName string, err error) {
	status := http.StatusBadGateway
	switch utils.KindOf(err) {
	case utils.ErrorKindValidation:
		status = http.StatusBadRequest
	case utils.ErrorKindPrecondition:
		status = http.StatusPreconditionFailed
	case utils.ErrorKindConflict:
		status = http.StatusConflict
	case utils.ErrorKindNotFound:
		status = http.StatusNotFound
	case utils.ErrorKindCollaborator:
		logger := config.GetLogger()
		config.LogError(logger, moduleName, funcName, "collaborator failure", nil, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON binds the request body and reports field-level errors.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(ve)})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
