package order

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/clothes-shop/internal/models"
	"github.com/example/clothes-shop/internal/mykafka"
)

type Service struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Log      *slog.Logger

	checkoutLocks userLocks
}

func NewService(db *gorm.DB, producer *mykafka.Producer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{DB: db, Producer: producer, Log: log}
}

// PlacedOrder pairs a created order with display data resolved at placement
// time.
type PlacedOrder struct {
	Order       models.Order    `json:"order"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type PlacementResult struct {
	Orders []PlacedOrder `json:"orders"`
	// Warning is set when the orders committed but the cart could not be
	// cleared afterwards. The orders stand; the cart needs re-clearing.
	Warning string `json:"warning,omitempty"`
}

// line is one surviving cart line after product resolution and merging of
// duplicate (user, product) rows.
type line struct {
	product  models.Product
	quantity uint
}

// PlaceOrder turns the user's cart into orders. All inventory decrements and
// order inserts run in one transaction: any insufficient line rolls the whole
// placement back, so a failed checkout leaves inventory and cart exactly as
// they were. The cart is cleared only after the transaction committed.
func (s *Service) PlaceOrder(ctx context.Context, userID uint) (*PlacementResult, error) {
	unlock := s.checkoutLocks.lock(userID)
	defer unlock()

	var placed []PlacedOrder

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := s.collectLines(tx, userID)
		if err != nil {
			return err
		}

		// Validation pass, no writes: report the first short line before
		// touching anything.
		for _, l := range lines {
			available, err := availableQuantity(tx, l.product.ID)
			if err != nil {
				return err
			}
			if available < l.quantity {
				return &InsufficientStockError{
					ProductID: l.product.ID,
					Available: available,
					Requested: l.quantity,
				}
			}
		}

		for _, l := range lines {
			if err := decrementInventory(tx, l.product.ID, l.quantity); err != nil {
				return err
			}

			o := models.Order{
				Number:     uuid.NewString(),
				UserID:     userID,
				ProductID:  l.product.ID,
				Quantity:   l.quantity,
				TotalPrice: l.product.Price.Mul(decimal.NewFromInt(int64(l.quantity))),
				Status:     models.OrderStatusPending,
			}
			if err := tx.Create(&o).Error; err != nil {
				return err
			}
			placed = append(placed, PlacedOrder{
				Order:       o,
				ProductName: l.product.Name,
				UnitPrice:   l.product.Price,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	result := &PlacementResult{Orders: placed}

	// Orders are committed at this point. A failed cart clear must not undo
	// them, so it is reported as a warning instead of an error.
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error; err != nil {
		s.Log.Error("cart clear failed after checkout",
			"user_id", userID, "error", err)
		result.Warning = "orders placed, but the cart could not be cleared"
	}

	s.publishPlaced(ctx, userID, placed)

	return result, nil
}

// collectLines loads the cart, drops lines whose product no longer exists and
// merges duplicate rows for the same product. An empty outcome is EmptyCart.
func (s *Service) collectLines(tx *gorm.DB, userID uint) ([]*line, error) {
	var items []models.CartItem
	if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var lines []*line
	byProduct := make(map[uint]*line)
	for _, it := range items {
		if l, ok := byProduct[it.ProductID]; ok {
			l.quantity += it.Quantity
			continue
		}

		var p models.Product
		if err := tx.First(&p, it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.Log.Warn("skipping cart line, product no longer exists",
					"user_id", userID,
					"cart_item_id", it.ID,
					"product_id", it.ProductID)
				continue
			}
			return nil, err
		}

		l := &line{product: p, quantity: it.Quantity}
		byProduct[it.ProductID] = l
		lines = append(lines, l)
	}

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return lines, nil
}

func availableQuantity(tx *gorm.DB, productID uint) (uint, error) {
	var inv models.Inventory
	if err := tx.Where("product_id = ?", productID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return inv.Quantity, nil
}

// decrementInventory is the atomic check-and-set: the quantity guard sits in
// the UPDATE itself, so two concurrent checkouts can never both pass a stale
// read. Zero affected rows means the stock moved under us; the caller's
// transaction rolls back.
func decrementInventory(tx *gorm.DB, productID, quantity uint) error {
	res := tx.Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		available, err := availableQuantity(tx, productID)
		if err != nil {
			return err
		}
		return &InsufficientStockError{
			ProductID: productID,
			Available: available,
			Requested: quantity,
		}
	}
	return nil
}

func (s *Service) publishPlaced(ctx context.Context, userID uint, placed []PlacedOrder) {
	if s.Producer == nil {
		return
	}

	numbers := make([]string, 0, len(placed))
	for _, p := range placed {
		numbers = append(numbers, p.Order.Number)
	}
	event := map[string]any{
		"type":    "orders_placed",
		"userID":  userID,
		"orders":  numbers,
		"n_lines": len(placed),
	}
	if err := s.Producer.PublishEvent(ctx, "order_events", uintKey(userID), event); err != nil {
		s.Log.Error("kafka publish error", "topic", "order_events", "error", err)
	}
}

func uintKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// UpdateOrderStatus is the administrative status transition. Only the five
// known statuses are accepted; nothing else on the order ever changes.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	var o models.Order
	if err := s.DB.WithContext(ctx).First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Model(&o).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
