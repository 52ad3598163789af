package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/models"
)

// NextTierInfo describes the next loyalty tier and the points still
// needed to reach it
type NextTierInfo struct {
	Tier         string `json:"tier"`
	PointsNeeded int    `json:"points_needed"`
}

// LoyaltySummary is the read model for a user's loyalty standing
type LoyaltySummary struct {
	Points                int          `json:"points"`
	Tier                  string       `json:"tier"`
	NextTier              NextTierInfo `json:"next_tier"`
	QualifyingOrdersCount int64        `json:"qualifying_orders_count"`
	PointsPerOrder        int          `json:"points_per_order"`
}

// LoyaltyService awards points for qualifying completed orders and
// reports loyalty standing
type LoyaltyService struct {
	db *gorm.DB
}

// NewLoyaltyService creates a loyalty service bound to a database handle
func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{db: db}
}

// ProcessOrderLoyaltyPoints awards a flat point value when an order
// reaches the completed status. Eligibility: online order, registered
// user, total at or above the minimum spend. Returns true when points
// were awarded.
//
// At-most-once is enforced by the unique order_id on loyalty_awards: the
// award row is inserted in the same transaction as the point increment,
// so a concurrent duplicate attempt fails on the constraint instead of
// double-counting.
func (s *LoyaltyService) ProcessOrderLoyaltyPoints(order *models.Order) (bool, error) {
	if order.OrderType != models.OrderOnline ||
		order.UserID == nil ||
		order.TotalAmount.LessThan(models.LoyaltyMinimumSpend) ||
		order.Status != models.OrderCompleted {
		return false, nil
	}

	awarded := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		award := models.LoyaltyAward{
			OrderID: order.ID,
			UserID:  *order.UserID,
			Points:  models.LoyaltyPointsPerOrder,
		}
		if err := tx.Create(&award).Error; err != nil {
			if isDuplicateKeyError(err) {
				// Points were already awarded for this order
				return nil
			}
			return err
		}

		var user models.User
		if err := tx.First(&user, *order.UserID).Error; err != nil {
			return err
		}
		oldPoints := user.LoyaltyPoints

		if err := tx.Model(&user).
			UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", models.LoyaltyPointsPerOrder)).Error; err != nil {
			return err
		}

		entry := models.ActivityLog{
			UserID:      order.UserID,
			Action:      models.ActionLoyaltyAwarded,
			ModelName:   "Order",
			ObjectID:    fmt.Sprintf("%d", order.ID),
			Description: fmt.Sprintf("Loyalty points awarded for order %s (%s)", order.OrderNumber, order.TotalAmount.StringFixed(2)),
			OldValue:    fmt.Sprintf("%d", oldPoints),
			NewValue:    fmt.Sprintf("%d", oldPoints+models.LoyaltyPointsPerOrder),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		awarded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return awarded, nil
}

// GetUserLoyaltySummary returns a user's points, tier, and qualifying
// order count. Pure read, no mutation.
func (s *LoyaltyService) GetUserLoyaltySummary(user *models.User) (*LoyaltySummary, error) {
	var qualifying int64
	err := s.db.Model(&models.Order{}).
		Where("user_id = ? AND order_type = ? AND status = ? AND total_amount >= ?",
			user.ID, models.OrderOnline, models.OrderCompleted, models.LoyaltyMinimumSpend).
		Count(&qualifying).Error
	if err != nil {
		return nil, err
	}

	return &LoyaltySummary{
		Points:                user.LoyaltyPoints,
		Tier:                  models.TierForPoints(user.LoyaltyPoints),
		NextTier:              nextTierInfo(user.LoyaltyPoints),
		QualifyingOrdersCount: qualifying,
		PointsPerOrder:        models.LoyaltyPointsPerOrder,
	}, nil
}

// nextTierInfo computes the next tier from the current point count
func nextTierInfo(points int) NextTierInfo {
	switch {
	case points >= 100:
		return NextTierInfo{Tier: "Max", PointsNeeded: 0}
	case points >= 60:
		return NextTierInfo{Tier: "Gold", PointsNeeded: 100 - points}
	case points >= 35:
		return NextTierInfo{Tier: "Silver", PointsNeeded: 60 - points}
	default:
		return NextTierInfo{Tier: "Bronze", PointsNeeded: 35 - points}
	}
}
