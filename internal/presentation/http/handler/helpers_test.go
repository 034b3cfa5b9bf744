package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePeriod(t *testing.T) {
	c := testContext("/?start_date=2024-01-01&end_date=2024-01-31")
	period, err := parsePeriod(c)
	require.NoError(t, err)
	require.NotNil(t, period.Start)
	require.NotNil(t, period.End)
	assert.Equal(t, "2024-01-01_2024-01-31", period.Key())
	// the end date covers the whole day
	assert.True(t, period.End.After(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)))

	_, err = parsePeriod(testContext("/?start_date=01-01-2024"))
	assert.Error(t, err)

	period, err = parsePeriod(testContext("/"))
	require.NoError(t, err)
	assert.Equal(t, "all", period.Key())
}

func TestParsePagination(t *testing.T) {
	params := parsePagination(testContext("/?page=0&per_page=5000"))
	assert.Equal(t, 1, params.Page)
	assert.LessOrEqual(t, params.PerPage, 100)
}

func TestToSaleInput_SaleDate(t *testing.T) {
	input, err := toSaleInput(&request.CreateSaleRequest{SaleDate: "2024-03-05T10:30:00Z"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), *input.SaleDate)

	input, err = toSaleInput(&request.CreateSaleRequest{SaleDate: "2024-03-05"})
	require.NoError(t, err)
	assert.Equal(t, 5, input.SaleDate.Day())

	_, err = toSaleInput(&request.CreateSaleRequest{SaleDate: "yesterday"})
	assert.Error(t, err)

	input, err = toSaleInput(&request.CreateSaleRequest{})
	require.NoError(t, err)
	assert.Nil(t, input.SaleDate)
}
