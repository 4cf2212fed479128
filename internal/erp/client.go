package erp

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

// itemFields are the Item DocType fields the storefront needs.
var itemFields = []string{"item_code", "item_name", "standard_rate", "image", "description", "item_group"}

// itemFilters restrict the list to active, non-variant sales items.
const itemFilters = `[["is_sales_item","=",1],["has_variants","=",0],["disabled","=",0]]`

// Client calls the ERPNext REST API with the server-held credential pair.
// It is the only component that ever sees the API key and secret; errors and
// logs carry sanitized detail only.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	warehouse  string
	pageLength int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an ERPNext REST client
func NewClient(cfg config.ERPConfig, pageLength int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")

	if pageLength <= 0 {
		pageLength = 50
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		warehouse:  cfg.Warehouse,
		pageLength: pageLength,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) configured() error {
	if c.baseURL == "" || c.apiKey == "" || c.apiSecret == "" {
		return &errors.ErrConfiguration{Message: "ERP credentials are not configured"}
	}
	return nil
}

func (c *Client) resourceURL(docType string) string {
	return c.baseURL + "/api/resource/" + url.PathEscape(docType)
}

// SalesOrderDoc is the subset of the created Sales Order document the
// storefront consumes. Name is the ERP order identifier (e.g. SAL-ORD-0001).
type SalesOrderDoc struct {
	Name            string  `json:"name"`
	Customer        string  `json:"customer"`
	TransactionDate string  `json:"transaction_date"`
	GrandTotal      float64 `json:"grand_total"`
	Status          string  `json:"status"`
}

// CustomerDoc is the Customer DocType subset used on creation.
type CustomerDoc struct {
	Name         string `json:"name,omitempty"`
	CustomerName string `json:"customer_name"`
	CustomerType string `json:"customer_type,omitempty"`
	EmailID      string `json:"email_id,omitempty"`
}

// CreateSalesOrder creates a Sales Order in the ERP. The document is sent
// wrapped under a "doc" key, and the configured default warehouse is injected
// into every line that does not name one.
func (c *Client) CreateSalesOrder(ctx context.Context, req domain.OrderRequest) (*SalesOrderDoc, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderLine, len(req.Items))
	copy(items, req.Items)
	for i := range items {
		if items[i].Warehouse == "" {
			items[i].Warehouse = c.warehouse
		}
	}
	req.Items = items

	body, err := c.post(ctx, "Sales Order", map[string]any{"doc": req})
	if err != nil {
		return nil, err
	}

	var out struct {
		Data SalesOrderDoc `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sales order response: %w", err)
	}
	if out.Data.Name == "" {
		// 2xx without a recognizable created document is not a success.
		return nil, &errors.ErrUpstreamRejection{Status: http.StatusOK, Detail: "response carried no order name"}
	}

	c.logger.Info("Sales order created in ERP", zap.String("order_name", out.Data.Name))
	return &out.Data, nil
}

// CreateCustomer creates a Customer in the ERP from a bare document.
func (c *Client) CreateCustomer(ctx context.Context, doc CustomerDoc) (*CustomerDoc, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	if doc.CustomerType == "" {
		doc.CustomerType = "Individual"
	}

	body, err := c.post(ctx, "Customer", doc)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data CustomerDoc `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer response: %w", err)
	}

	c.logger.Info("Customer created in ERP", zap.String("customer", out.Data.Name))
	return &out.Data, nil
}

// ListItems fetches the sellable item list.
func (c *Client) ListItems(ctx context.Context) ([]domain.Product, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.resourceURL("Item"))
	if err != nil {
		return nil, err
	}
	fields, _ := json.Marshal(itemFields)
	q := u.Query()
	q.Set("fields", string(fields))
	q.Set("filters", itemFilters)
	q.Set("limit_page_length", fmt.Sprintf("%d", c.pageLength))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, "list items")
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []domain.Product `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item list: %w", err)
	}
	return out.Data, nil
}

func (c *Client) post(ctx context.Context, docType string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resourceURL(docType), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, "create "+strings.ToLower(docType))
}

// do executes the request and maps the outcome onto the failure taxonomy:
// transport errors to ErrNetwork/ErrTimeout, non-2xx to ErrUpstreamRejection
// with a normalized detail string.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	req.Header.Set("Authorization", "token "+c.apiKey+":"+c.apiSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("ERP request timed out", zap.String("op", op))
			return nil, &errors.ErrTimeout{Op: op, Timeout: c.httpClient.Timeout}
		}
		c.logger.Warn("ERP request failed", zap.String("op", op), zap.Error(err))
		return nil, &errors.ErrNetwork{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ErrNetwork{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := Detail(body)
		c.logger.Warn("ERP rejected request",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		return nil, &errors.ErrUpstreamRejection{Status: resp.StatusCode, Detail: detail}
	}

	return body, nil
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
