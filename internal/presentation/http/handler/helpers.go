package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/sangkips/salon-api/pkg/utils"
)

const dateLayout = "2006-01-02"

// parseID reads the :id path parameter
func parseID(c *gin.Context, resource string) (uuid.UUID, error) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + resource + " ID")
	}
	return id, nil
}

// parsePagination reads page and per_page query parameters
func parsePagination(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}
	params.Validate()
	return params
}

// parseDate parses an optional YYYY-MM-DD value
func parseDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid " + field + " format. Use YYYY-MM-DD")
	}
	return &t, nil
}

// parsePeriod reads start_date and end_date into a reporting period
func parsePeriod(c *gin.Context) (service.Period, error) {
	start, err := parseDate(c.Query("start_date"), "start_date")
	if err != nil {
		return service.Period{}, err
	}
	end, err := parseDate(c.Query("end_date"), "end_date")
	if err != nil {
		return service.Period{}, err
	}
	return service.NewPeriod(start, end)
}

// parseOptionalUUID parses an optional id query parameter
func parseOptionalUUID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := utils.ParseUUID(value)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid " + field)
	}
	return &id, nil
}
