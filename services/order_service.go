package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/models"
)

const orderNumberAttempts = 5

// EmptyOrderError is returned when an order is submitted with no line items
type EmptyOrderError struct{}

func (e *EmptyOrderError) Error() string {
	return "at least one item is required to create an order"
}

// ProductNotFoundError is returned when a line item references a product
// that does not exist. Inactive products can still be ordered; hiding them
// from the storefront is the catalog's concern, not the order pipeline's.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d does not exist", e.ProductID)
}

// InsufficientStockError is returned when a line item requests more than
// the available stock. The whole order is rejected.
type InsufficientStockError struct {
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %s, Requested: %s",
		e.ProductName, e.Available.String(), e.Requested.String())
}

// InvalidLineItemError is returned when a line item fails validation,
// e.g. a missing or non-positive weight for a weight-based product
type InvalidLineItemError struct {
	ProductName string
	Reason      string
}

func (e *InvalidLineItemError) Error() string {
	return fmt.Sprintf("invalid item for %s: %s", e.ProductName, e.Reason)
}

// OrderItemRequest is one requested line of a new order
type OrderItemRequest struct {
	ProductID           uint             `json:"product_id" binding:"required"`
	Quantity            int              `json:"quantity" binding:"required,gt=0"`
	WeightKg            *decimal.Decimal `json:"weight_kg,omitempty"`
	SpecialInstructions string           `json:"special_instructions"`
}

// CreateOrderInput carries everything needed to place an order
type CreateOrderInput struct {
	User              *models.User // nil for guest checkout
	CustomerName      string
	CustomerPhone     string
	CustomerEmail     string
	OrderType         string
	FulfillmentMethod string
	DeliveryAddress   string
	TableNumber       string
	Notes             string
	Items             []OrderItemRequest
}

// OrderService implements the order fulfillment workflow: price line items
// against the catalog, reserve stock, and persist the order aggregate as
// one atomic unit.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service bound to a database handle
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder validates and prices each line item, decrements stock, and
// persists the order with its computed total. The whole operation runs in
// a single transaction: any failing line rolls back every earlier stock
// reservation. Unit prices are captured from the live catalog at
// submission time and snapshotted onto the order items.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, &EmptyOrderError{}
	}

	if input.OrderType == "" {
		input.OrderType = models.OrderOnline
	}
	if input.FulfillmentMethod == "" {
		input.FulfillmentMethod = models.FulfillmentPickup
	}

	var order *models.Order
	var err error

	// Order numbers are unique; regenerate and retry the whole
	// transaction on the (unlikely) collision.
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err = s.createOrderOnce(input, generateOrderNumber())
		if err != nil && isDuplicateKeyError(err) {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) createOrderOnce(input CreateOrderInput, orderNumber string) (*models.Order, error) {
	order := &models.Order{
		OrderNumber:       orderNumber,
		CustomerName:      input.CustomerName,
		CustomerPhone:     input.CustomerPhone,
		CustomerEmail:     input.CustomerEmail,
		OrderType:         input.OrderType,
		FulfillmentMethod: input.FulfillmentMethod,
		Status:            models.OrderPending,
		DeliveryAddress:   input.DeliveryAddress,
		TableNumber:       input.TableNumber,
		Notes:             input.Notes,
		DeliveryFee:       deliveryFeeFor(input.FulfillmentMethod),
		TotalAmount:       decimal.Zero,
	}
	if input.User != nil {
		order.UserID = &input.User.ID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		totalAmount := decimal.Zero

		// Process lines in request order; the first failure aborts
		// the whole order and rolls back earlier reservations.
		for _, item := range input.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: item.ProductID}
				}
				return err
			}

			if err := validateLineItem(&product, item); err != nil {
				return err
			}

			// Unit price is the live catalog price at submission
			// time; it is not locked earlier (e.g. at cart-add).
			unitPrice := product.Price
			required := requiredStock(&product, item)

			if err := reserveStock(tx, &product, required); err != nil {
				return err
			}

			orderItem := models.OrderItem{
				OrderID:             order.ID,
				ProductID:           product.ID,
				ProductName:         product.Name,
				Quantity:            item.Quantity,
				UnitPrice:           unitPrice,
				SpecialInstructions: item.SpecialInstructions,
			}
			if product.IsWeightBased() {
				orderItem.WeightKg = item.WeightKg
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			totalAmount = totalAmount.Add(orderItem.TotalPrice())
			order.Items = append(order.Items, orderItem)
		}

		order.TotalAmount = totalAmount
		return tx.Model(order).UpdateColumn("total_amount", totalAmount).Error
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// validateLineItem enforces the weight rules: weight-based products
// require a positive weight, everything else must not carry one
func validateLineItem(product *models.Product, item OrderItemRequest) error {
	if product.IsWeightBased() {
		if item.WeightKg == nil {
			return &InvalidLineItemError{
				ProductName: product.Name,
				Reason:      "weight_kg is required for weight-based products",
			}
		}
		if !item.WeightKg.IsPositive() {
			return &InvalidLineItemError{
				ProductName: product.Name,
				Reason:      "weight_kg must be a positive value",
			}
		}
		return nil
	}
	if item.WeightKg != nil {
		return &InvalidLineItemError{
			ProductName: product.Name,
			Reason:      "weight_kg is only allowed for weight-based products",
		}
	}
	return nil
}

// requiredStock is the reservation amount for one line: weight in kg for
// weight-based products, item count otherwise
func requiredStock(product *models.Product, item OrderItemRequest) decimal.Decimal {
	if product.IsWeightBased() {
		return *item.WeightKg
	}
	return decimal.NewFromInt(int64(item.Quantity))
}

// reserveStock decrements the product's stock with a conditional update
// guarded by the current stock level. The guard and the decrement execute
// as one statement, so two concurrent orders cannot both pass the check
// and oversell the product.
func reserveStock(tx *gorm.DB, product *models.Product, required decimal.Decimal) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", product.ID, required).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", required))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Re-read for an accurate available figure in the rejection
		var current models.Product
		if err := tx.First(&current, product.ID).Error; err != nil {
			return err
		}
		return &InsufficientStockError{
			ProductName: product.Name,
			Available:   current.StockQuantity,
			Requested:   required,
		}
	}
	return nil
}

func deliveryFeeFor(fulfillmentMethod string) decimal.Decimal {
	if fulfillmentMethod == models.FulfillmentDelivery {
		return models.DeliveryFee
	}
	return decimal.Zero
}

// generateOrderNumber builds an order number from the current timestamp
// plus a random suffix. Uniqueness is enforced by the database; callers
// retry on conflict.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD%s%s", time.Now().Format("20060102150405"), suffix)
}

// isDuplicateKeyError detects unique constraint violations across
// PostgreSQL and SQLite
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
