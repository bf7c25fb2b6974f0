package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupCustomerRouter(t *testing.T) *gin.Engine {
	t.Helper()

	setupOrderTestDB(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/customers/resolve", ResolveCustomer)
		v1.GET("/customers", ListCustomers)
		v1.GET("/customers/:id", GetCustomer)
	}
	return router
}

func TestResolveCustomerEndpoint(t *testing.T) {
	router := setupCustomerRouter(t)

	w := doJSON(router, "POST", "/api/v1/customers/resolve", map[string]interface{}{
		"name":  "Jane",
		"email": "jane@x.com",
		"phone": "555-1111",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	first := response["data"].(map[string]interface{})

	// Same email, changed phone: same id, overwritten phone
	w = doJSON(router, "POST", "/api/v1/customers/resolve", map[string]interface{}{
		"name":  "Jane",
		"email": "jane@x.com",
		"phone": "555-2222",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	second := response["data"].(map[string]interface{})

	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, "555-2222", second["phone"])
}

func TestResolveCustomerValidation(t *testing.T) {
	router := setupCustomerRouter(t)

	w := doJSON(router, "POST", "/api/v1/customers/resolve", map[string]interface{}{
		"name":  "Jane",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestGetCustomerEndpoint(t *testing.T) {
	router := setupCustomerRouter(t)

	w := doJSON(router, "GET", "/api/v1/customers/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "GET", "/api/v1/customers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCustomersEndpoint(t *testing.T) {
	router := setupCustomerRouter(t)

	doJSON(router, "POST", "/api/v1/customers/resolve", map[string]interface{}{
		"name":  "Jane",
		"email": "jane@x.com",
	})
	doJSON(router, "POST", "/api/v1/customers/resolve", map[string]interface{}{
		"name":  "Bob",
		"email": "bob@x.com",
	})

	w := doJSON(router, "GET", "/api/v1/customers", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"].([]interface{}), 2)
}
