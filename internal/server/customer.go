package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/empresia/walletadmin/internal/csvio"
	storedomain "github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/empresia/walletadmin/pkg/tenantctx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createCustomerRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		AbortWithError(c, newValidationError("email", "required", "email is required"))
		return
	}

	resp, err := s.store.AddCustomer(c.Request.Context(), storedomain.AddCustomerRequest{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	req, err := customerListRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.store.ListCustomers(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		resp = []storedomain.Customer{}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ImportCustomers ingests a CSV upload. Rows without a name or an email are
// filtered out before they reach the store.
func (s *Server) ImportCustomers(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "csv file is required"))
		return
	}
	defer file.Close()

	rows, skipped, err := csvio.DecodeCustomers(file)
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_csv", "could not parse csv"))
		return
	}

	result, err := s.store.BulkAddCustomers(c.Request.Context(), rows)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"added":   result.Added,
		"skipped": skipped,
	}})
}

func (s *Server) ExportCustomers(c *gin.Context) {
	req, err := customerListRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	customers, err := s.store.ListCustomers(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tenantID, _ := tenantctx.TenantID(c.Request.Context())
	filename := fmt.Sprintf("clientes_%s.csv", tenantID)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := csvio.EncodeCustomers(c.Writer, customers); err != nil {
		s.log.Warn("customer export aborted", zap.Error(err))
	}
}

func customerListRequest(c *gin.Context) (storedomain.ListCustomersRequest, error) {
	var query struct {
		Q           string `form:"q"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		return storedomain.ListCustomersRequest{}, invalidRequestError()
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		return storedomain.ListCustomersRequest{}, newValidationError("created_from", "invalid_created_from", "invalid created_from")
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		return storedomain.ListCustomersRequest{}, newValidationError("created_to", "invalid_created_to", "invalid created_to")
	}

	return storedomain.ListCustomersRequest{
		Query:       strings.TrimSpace(query.Q),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}, nil
}

// parseOptionalTime accepts RFC3339 timestamps or bare dates. Bare dates on
// the range end are pushed to the end of the day so the bound is inclusive.
func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
