package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

func testERPConfig(baseURL string) config.ERPConfig {
	return config.ERPConfig{
		BaseURL:   baseURL,
		APIKey:    "test-key",
		APISecret: "test-secret",
		Warehouse: "Stores - ITPS",
	}
}

func orderFixture() domain.OrderRequest {
	return domain.OrderRequest{
		Customer:        "Cliente Mostrador",
		TransactionDate: "2026-08-30",
		Items: []domain.OrderLine{
			{ItemCode: "HOODIE-M", Qty: 1, Rate: 450.00},
		},
	}
}

func TestCreateSalesOrder_WrapsDocAndInjectsWarehouse(t *testing.T) {
	var got struct {
		Doc domain.OrderRequest `json:"doc"`
	}
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"name":"SAL-ORD-2026-00042","customer":"Cliente Mostrador","grand_total":450.0}}`))
	}))
	defer srv.Close()

	client := NewClient(testERPConfig(srv.URL), 50, nil)
	doc, err := client.CreateSalesOrder(context.Background(), orderFixture())

	require.NoError(t, err)
	assert.Equal(t, "SAL-ORD-2026-00042", doc.Name)
	assert.Equal(t, "token test-key:test-secret", gotAuth)
	assert.Equal(t, "/api/resource/Sales%20Order", gotPath)
	require.Len(t, got.Doc.Items, 1)
	assert.Equal(t, "HOODIE-M", got.Doc.Items[0].ItemCode)
	assert.Equal(t, "Stores - ITPS", got.Doc.Items[0].Warehouse)
}

func TestCreateSalesOrder_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to create Sales Order","details":{"exc":"[\"Traceback line 1\",\"ValidationError: Item HOODIE-M not found\"]"}}`))
	}))
	defer srv.Close()

	client := NewClient(testERPConfig(srv.URL), 50, nil)
	_, err := client.CreateSalesOrder(context.Background(), orderFixture())

	require.Error(t, err)
	var rej *errors.ErrUpstreamRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusInternalServerError, rej.Status)
	assert.Contains(t, rej.Detail, "ValidationError: Item HOODIE-M not found")
	assert.Equal(t, errors.CategoryUpstream, errors.CategoryOf(err))
}

func TestCreateSalesOrder_SuccessWithoutOrderName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := NewClient(testERPConfig(srv.URL), 50, nil)
	_, err := client.CreateSalesOrder(context.Background(), orderFixture())

	var rej *errors.ErrUpstreamRejection
	require.ErrorAs(t, err, &rej)
}

func TestCreateSalesOrder_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(testERPConfig(srv.URL), 50, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.CreateSalesOrder(ctx, orderFixture())

	require.Error(t, err)
	assert.Equal(t, errors.CategoryTimeout, errors.CategoryOf(err))
}

func TestCreateSalesOrder_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(testERPConfig(srv.URL), 50, nil)
	_, err := client.CreateSalesOrder(context.Background(), orderFixture())

	require.Error(t, err)
	assert.Equal(t, errors.CategoryNetwork, errors.CategoryOf(err))
}

func TestCreateSalesOrder_NotConfigured(t *testing.T) {
	client := NewClient(config.ERPConfig{}, 50, nil)
	_, err := client.CreateSalesOrder(context.Background(), orderFixture())

	var cfgErr *errors.ErrConfiguration
	require.ErrorAs(t, err, &cfgErr)
}

func TestListItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resource/Item", r.URL.Path)
		q := r.URL.Query()
		assert.Contains(t, q.Get("fields"), "standard_rate")
		assert.Contains(t, q.Get("filters"), "is_sales_item")
		assert.Equal(t, "50", q.Get("limit_page_length"))
		w.Write([]byte(`{"data":[
			{"item_code":"CAMISETA-001","item_name":"Camiseta Clásica ITP","standard_rate":250},
			{"item_code":"TAZA-001","item_name":"Taza Universitaria","standard_rate":120}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(testERPConfig(srv.URL), 50, nil)
	items, err := client.ListItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "CAMISETA-001", items[0].Code)
	assert.Equal(t, 250.0, items[0].Rate)
}

func TestCreateCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resource/Customer", r.URL.Path)
		var doc CustomerDoc
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "Individual", doc.CustomerType)
		w.Write([]byte(`{"data":{"name":"CUST-0007","customer_name":"Juan Pérez"}}`))
	}))
	defer srv.Close()

	client := NewClient(testERPConfig(srv.URL), 50, nil)
	created, err := client.CreateCustomer(context.Background(), CustomerDoc{CustomerName: "Juan Pérez"})

	require.NoError(t, err)
	assert.Equal(t, "CUST-0007", created.Name)
}
