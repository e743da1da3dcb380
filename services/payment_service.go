package services

import (
	"context"
	"errors"
	"time"

	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PromotionPeriod is how long one payment keeps a restaurant promoted
const PromotionPeriod = 7 * 24 * time.Hour

type PaymentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db, now: time.Now}
}

// CreatePayment promotes the owner's restaurant for a week and records the payment
func (s *PaymentService) CreatePayment(ctx context.Context, owner *models.User, in CreatePaymentInput) CreatePaymentOutput {
	const generic = "Could not create payment."

	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).First(&restaurant, in.RestaurantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CreatePaymentOutput{fail("Restaurant not found.")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "createPayment").Msg("restaurant lookup failed")
		return CreatePaymentOutput{fail(generic)}
	}
	if !policy.Can(owner, &restaurant, policy.PromoteRestaurant) {
		return CreatePaymentOutput{fail("You are not allowed to do this.")}
	}

	until := s.now().Add(PromotionPeriod)
	restaurant.IsPromoted = true
	restaurant.PromotedUntil = &until

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&restaurant).Error; err != nil {
			return err
		}
		payment := models.Payment{
			TransactionID: in.TransactionID,
			UserID:        owner.ID,
			RestaurantID:  restaurant.ID,
		}
		return tx.Omit(clause.Associations).Create(&payment).Error
	})
	if err != nil {
		log.Error().Err(err).Str("op", "createPayment").Uint("restaurant_id", restaurant.ID).Msg("could not persist payment")
		return CreatePaymentOutput{fail(generic)}
	}
	return CreatePaymentOutput{ok()}
}

// GetPayments lists the user's payments, newest first
func (s *PaymentService) GetPayments(ctx context.Context, user *models.User) GetPaymentsOutput {
	var payments []models.Payment
	err := s.db.WithContext(ctx).Preload("Restaurant").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&payments).Error
	if err != nil {
		log.Error().Err(err).Str("op", "getPayments").Uint("user_id", user.ID).Msg("query failed")
		return GetPaymentsOutput{CoreOutput: fail("Could not load payments.")}
	}
	return GetPaymentsOutput{CoreOutput: ok(), Payments: payments}
}

// CheckPromotedRestaurants clears expired promotions and returns how many
// rows were cleared. Each row is saved on its own; a failed row is logged
// and left for the next sweep.
func (s *PaymentService) CheckPromotedRestaurants(ctx context.Context) (int, error) {
	var expired []models.Restaurant
	err := s.db.WithContext(ctx).
		Where("is_promoted = ? AND promoted_until < ?", true, s.now()).
		Find(&expired).Error
	if err != nil {
		return 0, err
	}

	cleared := 0
	for i := range expired {
		r := &expired[i]
		r.IsPromoted = false
		r.PromotedUntil = nil
		if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(r).Error; err != nil {
			log.Warn().Err(err).Uint("restaurant_id", r.ID).Msg("could not clear expired promotion")
			continue
		}
		cleared++
	}
	return cleared, nil
}

// PromotionSweeper runs CheckPromotedRestaurants on a fixed interval
type PromotionSweeper struct {
	payments *PaymentService
	interval time.Duration
}

func NewPromotionSweeper(payments *PaymentService, interval time.Duration) *PromotionSweeper {
	return &PromotionSweeper{payments: payments, interval: interval}
}

// Run blocks until ctx is cancelled
func (p *PromotionSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", p.interval).Msg("promotion sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("promotion sweeper stopped")
			return nil
		case <-ticker.C:
			n, err := p.payments.CheckPromotedRestaurants(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Warn().Err(err).Msg("promotion sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int("cleared", n).Msg("expired promotions cleared")
			}
		}
	}
}
