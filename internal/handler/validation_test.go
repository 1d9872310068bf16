package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tiendapos/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bindPurchaseBody(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/purchases", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req dto.CreatePurchaseRequest
	return w, bindAndValidate(c, &req)
}

func TestPurchaseLineRejectsNonPositiveAmounts(t *testing.T) {
	tmpl := `{"supplier_name":"Distribuidora Norte","items":[{"product_name":"Yerba 1kg","quantity":2,"unit_cost":%s,"sale_price":%s}]}`

	cases := []struct {
		name  string
		cost  string
		price string
		ok    bool
	}{
		{"negative cost", "-10", "20", false},
		{"zero cost", "0", "20", false},
		{"negative price", "10", "-20", false},
		{"zero price", "10", "0", false},
		{"positive amounts", "10", "20", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := bindPurchaseBody(t, fmt.Sprintf(tmpl, tc.cost, tc.price))
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			}
		})
	}
}
