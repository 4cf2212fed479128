package checkout

import (
	"strings"
	"time"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

// BuildOrder maps a cart snapshot into the Sales Order document shape. It is
// called once per checkout attempt, before any network I/O, and rejects empty
// carts and unresolvable customers there. Item codes are uppercased to the
// ERP item-code convention. The transaction date comes from the local clock,
// acceptable for this domain.
func BuildOrder(cart domain.Cart, customer string, cfg config.ERPConfig) (domain.OrderRequest, error) {
	if len(cart.Lines) == 0 {
		return domain.OrderRequest{}, &errors.ErrValidation{Message: "cart is empty"}
	}

	customer = strings.TrimSpace(customer)
	if customer == "" {
		customer = cfg.DefaultCustomer
	}
	if customer == "" {
		return domain.OrderRequest{}, &errors.ErrValidation{
			Message: "no customer reference: pass one or set ERP_DEFAULT_CUSTOMER",
			Fields:  map[string]string{"customer": "required"},
		}
	}

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, domain.OrderLine{
			ItemCode: strings.ToUpper(l.Code),
			Qty:      l.Quantity,
			Rate:     l.UnitPrice,
		})
	}

	return domain.OrderRequest{
		Customer:         customer,
		TransactionDate:  time.Now().Format("2006-01-02"),
		Currency:         cfg.Currency,
		SellingPriceList: cfg.PriceList,
		Items:            lines,
	}, nil
}
