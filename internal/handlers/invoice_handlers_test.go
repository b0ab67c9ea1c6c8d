package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"garagepro/internal/common"
	"garagepro/internal/models"
	"garagepro/testhelpers"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InvoiceHandlersTestSuite struct {
	suite.Suite
	e        *echo.Echo
	invoices *MockInvoiceService
	exports  *MockExportService
	invoice  *models.Invoice
}

func (suite *InvoiceHandlersTestSuite) SetupTest() {
	suite.invoices = &MockInvoiceService{}
	suite.exports = &MockExportService{}
	suite.e = newTestEcho()
	NewInvoiceHandlers(suite.invoices, suite.exports).RegisterRoutes(suite.e.Group("/api"))
	suite.invoice = testhelpers.NewInvoice("inv_1", testhelpers.NewCustomer("cust_1"), testhelpers.NewVehicle("veh_1", "cust_1"))
}

func (suite *InvoiceHandlersTestSuite) TearDownTest() {
	suite.invoices.AssertExpectations(suite.T())
	suite.exports.AssertExpectations(suite.T())
}

func TestInvoiceHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceHandlersTestSuite))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	return e
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (suite *InvoiceHandlersTestSuite) TestCreateInvoice() {
	body := `{
		"customerId": "cust_1",
		"vehicleId": "veh_1",
		"date": "2024-03-01",
		"dueDate": "2024-03-31",
		"items": [{"description": "Oil change", "quantity": 1, "unitPrice": 45.00}],
		"taxRate": 8
	}`
	suite.invoices.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(d models.CreateInvoiceData) bool {
		return d.CustomerID == "cust_1" &&
			len(d.Items) == 1 &&
			d.Items[0].UnitPrice.Equal(testhelpers.Dec("45")) &&
			d.TaxRate != nil && d.TaxRate.Equal(testhelpers.Dec("8"))
	})).Return(suite.invoice, nil)

	rec := serve(suite.e, http.MethodPost, "/api/invoices", body)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	var got map[string]any
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), "inv_1", got["id"])
	assert.Equal(suite.T(), "Pending", got["status"])
	assert.Equal(suite.T(), 110.0, got["total"])
}

func (suite *InvoiceHandlersTestSuite) TestCreateInvoice_MalformedBody() {
	rec := serve(suite.e, http.MethodPost, "/api/invoices", `{"customerId": `)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "Invalid request format", decodeError(suite.T(), rec).Error)
}

func (suite *InvoiceHandlersTestSuite) TestCreateInvoice_ValidationError() {
	verr := common.NewValidationError("items[0].quantity", "must be greater than 0")
	suite.invoices.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, verr)

	rec := serve(suite.e, http.MethodPost, "/api/invoices", `{"customerId": "cust_1"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	body := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "must be greater than 0", body.Details["items[0].quantity"])
}

func (suite *InvoiceHandlersTestSuite) TestCreateInvoice_CustomerNotFound() {
	suite.invoices.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, common.NewNotFoundError("Customer"))

	rec := serve(suite.e, http.MethodPost, "/api/invoices", `{"customerId": "cust_missing"}`)

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "Customer not found", decodeError(suite.T(), rec).Error)
}

func (suite *InvoiceHandlersTestSuite) TestCreateInvoice_StoreFailureIsHidden() {
	suite.invoices.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(nil, common.NewPersistenceError("insert invoice", errors.New("dial tcp 10.0.0.5:5432: refused")))

	rec := serve(suite.e, http.MethodPost, "/api/invoices", `{"customerId": "cust_1"}`)

	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	assert.Equal(suite.T(), "Internal server error", decodeError(suite.T(), rec).Error)
	assert.NotContains(suite.T(), rec.Body.String(), "10.0.0.5")
}

func (suite *InvoiceHandlersTestSuite) TestListInvoices() {
	suite.invoices.On("ListInvoices", mock.Anything).Return([]*models.Invoice{suite.invoice}, nil)

	rec := serve(suite.e, http.MethodGet, "/api/invoices", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(suite.T(), got, 1)
	assert.Equal(suite.T(), "INV-1709285400000", got[0]["number"])
}

func (suite *InvoiceHandlersTestSuite) TestGetInvoice_NotFound() {
	suite.invoices.On("GetInvoice", mock.Anything, "nonexistent-id").Return(nil, common.NewNotFoundError("Invoice"))

	rec := serve(suite.e, http.MethodGet, "/api/invoices/nonexistent-id", "")

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.JSONEq(suite.T(), `{"error":"Invoice not found"}`, rec.Body.String())
}

func (suite *InvoiceHandlersTestSuite) TestUpdateInvoice_Conflict() {
	suite.invoices.On("UpdateInvoice", mock.Anything, "inv_1", mock.MatchedBy(func(d models.UpdateInvoiceData) bool {
		return d.Version != nil && *d.Version == 1 && d.Notes != nil && *d.Notes == "late"
	})).Return(nil, &common.ConflictError{Message: "invoice is at version 2, not 1"})

	rec := serve(suite.e, http.MethodPut, "/api/invoices/inv_1", `{"notes": "late", "version": 1}`)

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "invoice is at version 2, not 1", decodeError(suite.T(), rec).Error)
}

func (suite *InvoiceHandlersTestSuite) TestUpdateInvoiceStatus() {
	paid := *suite.invoice
	paid.Status = models.InvoiceStatusPaid
	suite.invoices.On("UpdateInvoiceStatus", mock.Anything, "inv_1", "Paid").Return(&paid, nil)

	rec := serve(suite.e, http.MethodPut, "/api/invoices/inv_1/status", `{"status": "Paid"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"status":"Paid"`)
}

func (suite *InvoiceHandlersTestSuite) TestUpdateInvoiceStatus_MissingStatus() {
	rec := serve(suite.e, http.MethodPut, "/api/invoices/inv_1/status", `{}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "is required", decodeError(suite.T(), rec).Details["status"])
}

func (suite *InvoiceHandlersTestSuite) TestDeleteInvoice() {
	suite.invoices.On("DeleteInvoice", mock.Anything, "inv_1").Return(true, nil)

	rec := serve(suite.e, http.MethodDelete, "/api/invoices/inv_1", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.JSONEq(suite.T(), `{"message":"Invoice deleted successfully"}`, rec.Body.String())
}

func (suite *InvoiceHandlersTestSuite) TestDeleteInvoice_Missing() {
	suite.invoices.On("DeleteInvoice", mock.Anything, "nonexistent-id").Return(false, nil)

	rec := serve(suite.e, http.MethodDelete, "/api/invoices/nonexistent-id", "")

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.JSONEq(suite.T(), `{"error":"Invoice not found"}`, rec.Body.String())
}

func (suite *InvoiceHandlersTestSuite) TestExportInvoice() {
	suite.exports.On("ExportInvoice", mock.Anything, "inv_1").
		Return(&models.InvoiceExport{URL: "http://minio.local/invoices/INV-1.json", ExpiresIn: "24h0m0s"}, nil)

	rec := serve(suite.e, http.MethodPost, "/api/invoices/inv_1/export", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.JSONEq(suite.T(), `{"url":"http://minio.local/invoices/INV-1.json","expiresIn":"24h0m0s"}`, rec.Body.String())
}
