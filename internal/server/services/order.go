package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// OrderItemRequest is one proposed line. Any client-side price is ignored.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// OrderService is the order committer: it validates and prices a proposed
// order, persists it, then clears the contributing cart.
type OrderService struct {
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
	now         func() time.Time
}

func NewOrderService(m repomanager.RepositoryManager, logger logging.Logger) *OrderService {
	return &OrderService{
		repomanager: m,
		validate:    validator.New(),
		logger:      logger.With("module", "order_service"),
		now:         time.Now,
	}
}

// PlaceOrder commits the order for identity and clears cartID. Checks run in
// order and stop at the first failure; nothing is written unless all pass.
// The cart is cleared only after the order is durable, and a failed clear
// does not undo the order.
func (s *OrderService) PlaceOrder(ctx context.Context, identity models.Identity, cartID string, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, common.ErrEmptyOrder
	}

	items, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	if err := s.validate.StructCtx(ctx, req.ShippingAddress); err != nil {
		return nil, common.ErrIncompleteAddress
	}
	if addressHasBlank(req.ShippingAddress) {
		return nil, common.ErrIncompleteAddress
	}

	total := models.ItemsTotal(items)
	if !total.IsPositive() {
		return nil, common.ErrInvalidTotal
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = models.DefaultPaymentMethod
	}

	ownerName := identity.DisplayName
	if ownerName == "" {
		ownerName = identity.Email
	}

	order := &models.Order{
		OwnerUserID:      identity.ID,
		OwnerEmail:       identity.Email,
		OwnerDisplayName: ownerName,
		Items:            items,
		Total:            total,
		ShippingAddress:  req.ShippingAddress,
		PaymentMethod:    paymentMethod,
		Status:           models.OrderStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
		CreatedAt:        s.now().UTC(),
	}

	order, err = s.repomanager.Orders().Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error saving order: %w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "order placed", "order_id", order.ID, "user_id", identity.ID, "total", order.Total.String())

	// the order exists; finish the hand-off even if the caller went away
	if err := s.repomanager.Carts().Clear(context.WithoutCancel(ctx), cartID); err != nil {
		s.logger.Warn(ctx, "cart not cleared after order", "order_id", order.ID, "cart_id", cartID, "error", err.Error())
	}

	return order, nil
}

// ListOrders returns the caller's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, identity models.Identity) ([]*models.Order, error) {
	list, err := s.repomanager.Orders().ListByOwnerEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	return list, nil
}

// ListAllOrders returns every order, newest first. Admin only.
func (s *OrderService) ListAllOrders(ctx context.Context, identity models.Identity) ([]*models.Order, error) {
	if err := RequireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Orders().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	return list, nil
}

func (s *OrderService) priceItems(ctx context.Context, reqItems []OrderItemRequest) ([]models.OrderItem, error) {
	catalog := s.repomanager.Products()

	items := make([]models.OrderItem, 0, len(reqItems))
	for _, it := range reqItems {
		if err := checkQuantity(it.Quantity); err != nil {
			return nil, err
		}
		if it.ProductID == "" {
			return nil, common.ErrUnknownProduct
		}

		p, err := catalog.Get(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrUnknownProduct
			}
			return nil, fmt.Errorf("catalog lookup: %w: %w", common.ErrorInternal, err)
		}
		if !p.Priced() {
			return nil, common.ErrUnknownProduct
		}

		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    it.Quantity,
		})
	}
	return items, nil
}

func addressHasBlank(a models.ShippingAddress) bool {
	for _, v := range []string{a.FullName, a.Phone, a.AddressLine, a.City, a.State, a.PostalCode} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
