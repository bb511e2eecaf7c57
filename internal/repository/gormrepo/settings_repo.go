package gormrepo

import (
	"context"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSettingsRepository(db *gorm.DB, logger *zap.Logger) repository.SettingsRepository {
	return &settingsRepo{db: db, logger: logger}
}

// Get creates the row on first use. Two first reads can race on the insert;
// the loser re-reads the winner's row.
func (r *settingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.WithContext(ctx).
		Where(domain.Settings{ID: domain.SettingsID}).
		Attrs(domain.DefaultSettings()).
		FirstOrCreate(&s).Error
	if err == nil {
		return &s, nil
	}

	var existing domain.Settings
	if retryErr := r.db.WithContext(ctx).First(&existing, "id = ?", domain.SettingsID).Error; retryErr == nil {
		r.logger.Warn("settings create lost a race, using stored row", zap.Error(err))
		return &existing, nil
	}
	r.logger.Error("settings read failed", zap.Error(err))
	return nil, err
}

func (r *settingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	s.ID = domain.SettingsID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(settingsColumns),
		}).
		Create(s).Error
	if err != nil {
		r.logger.Error("settings save failed", zap.Error(err))
	}
	return err
}

var settingsColumns = []string{
	"store_name", "store_phone", "store_email", "store_address",
	"mpesa_enabled", "mpesa_paybill_number", "mpesa_account_number", "mpesa_till_number",
	"mpesa_consumer_key", "mpesa_consumer_secret", "mpesa_passkey", "mpesa_shortcode",
	"manual_payment_phone", "manual_payment_name", "manual_payment_instructions",
	"delivery_fee", "minimum_order", "updated_at",
}
