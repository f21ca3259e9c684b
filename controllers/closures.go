package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/models/reports"
	"github.com/sodipas/negoce_backend/utils"
)

// GET /closures/summary?date=2026-02-10&opening_balance=50000
func GetDailySummary(c *gin.Context) {
	ctx := c.Request.Context()
	cashierId, _ := utils.GetUserIdFromContext(ctx)
	hangarId, _ := utils.GetHangarIdFromContext(ctx)
	if v, err := strconv.Atoi(c.Query("hangar_id")); err == nil && v > 0 {
		hangarId = v
	}

	date := time.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		date = parsed
	}
	opening := decimal.Zero
	if q := c.Query("opening_balance"); q != "" {
		parsed, err := utils.ParseDecimal(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid opening balance"})
			return
		}
		opening = parsed
	}

	summary, err := models.ComputeDailySummary(ctx, cashierId, hangarId, date, opening)
	if err != nil {
		respondError(c, "controllers/closures.go", "GetDailySummary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func CloseDay(c *gin.Context) {
	var input models.NewDailyClosure
	if !bindJSON(c, &input) {
		return
	}
	closure, err := models.CloseDay(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "controllers/closures.go", "CloseDay", err)
		return
	}
	c.JSON(http.StatusCreated, closure)
}

func GetClosure(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	closure, err := models.GetDailyClosure(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/closures.go", "GetClosure", err)
		return
	}
	c.JSON(http.StatusOK, closure)
}

func ListClosures(c *gin.Context) {
	var hangarId *int
	if v, err := strconv.Atoi(c.Query("hangar_id")); err == nil {
		hangarId = &v
	}
	closures, err := models.ListDailyClosures(c.Request.Context(), hangarId)
	if err != nil {
		respondError(c, "controllers/closures.go", "ListClosures", err)
		return
	}
	c.JSON(http.StatusOK, closures)
}

func GetClosureReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	closure, err := models.GetDailyClosure(c.Request.Context(), id)
	if err != nil {
		respondError(c, "controllers/closures.go", "GetClosureReport", err)
		return
	}
	report := reports.BuildClosureReport(closure)

	switch c.Query("format") {
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=cloture.xlsx")
		if err := report.ExportExcel(c.Writer); err != nil {
			respondError(c, "controllers/closures.go", "GetClosureReport", utils.CollaboratorError(err, "could not export report"))
		}
	case "text":
		c.Data(http.StatusOK, "text/plain; charset=utf-8", report.Render())
	default:
		c.JSON(http.StatusOK, report)
	}
}
