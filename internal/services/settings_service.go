package services

import (
	"context"
	"fmt"
	"strings"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	errMsgSettingsFailed       = "Failed to fetch settings"
	errMsgSettingsUpdateFailed = "Failed to update settings"
)

// SettingsProvider hands out the current settings snapshot.
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

var _ SettingsProvider = (*SettingsService)(nil)

type SettingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// SettingsInput is the admin edit form. Nil text and flag fields keep their
// stored value; the two amounts are always rewritten.
type SettingsInput struct {
	StoreName    *string
	StorePhone   *string
	StoreEmail   *string
	StoreAddress *string

	MpesaEnabled        *bool
	MpesaPaybillNumber  *string
	MpesaAccountNumber  *string
	MpesaTillNumber     *string
	MpesaConsumerKey    *string
	MpesaConsumerSecret *string
	MpesaPasskey        *string
	MpesaShortcode      *string

	ManualPaymentPhone        *string
	ManualPaymentName         *string
	ManualPaymentInstructions *string

	DeliveryFee  any
	MinimumOrder any
}

func assign[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	st, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", zap.Error(err))
		return nil, domain.NewPersistence(errMsgSettingsFailed, err)
	}
	return st, nil
}

func (s *SettingsService) Public(ctx context.Context) (*domain.PublicSettings, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	pub := st.Public()
	return &pub, nil
}

func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*domain.Settings, error) {
	st, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load settings for update", zap.Error(err))
		return nil, domain.NewPersistence(errMsgSettingsUpdateFailed, err)
	}

	assign(&st.StoreName, in.StoreName)
	assign(&st.StorePhone, in.StorePhone)
	assign(&st.StoreEmail, in.StoreEmail)
	assign(&st.StoreAddress, in.StoreAddress)

	assign(&st.MpesaEnabled, in.MpesaEnabled)
	assign(&st.MpesaPaybillNumber, in.MpesaPaybillNumber)
	assign(&st.MpesaAccountNumber, in.MpesaAccountNumber)
	assign(&st.MpesaTillNumber, in.MpesaTillNumber)
	assign(&st.MpesaConsumerKey, in.MpesaConsumerKey)
	assign(&st.MpesaConsumerSecret, in.MpesaConsumerSecret)
	assign(&st.MpesaPasskey, in.MpesaPasskey)
	assign(&st.MpesaShortcode, in.MpesaShortcode)

	assign(&st.ManualPaymentPhone, in.ManualPaymentPhone)
	assign(&st.ManualPaymentName, in.ManualPaymentName)
	assign(&st.ManualPaymentInstructions, in.ManualPaymentInstructions)

	st.DeliveryFee = LenientAmount(in.DeliveryFee)
	st.MinimumOrder = LenientAmount(in.MinimumOrder)

	if err := s.repo.Save(ctx, st); err != nil {
		s.logger.Error("failed to save settings", zap.Error(err))
		return nil, domain.NewPersistence(errMsgSettingsUpdateFailed, err)
	}
	return st, nil
}

// LenientAmount reads a money value from a form field. Anything that is not
// a non-negative number becomes zero.
func LenientAmount(v any) decimal.Decimal {
	var d decimal.Decimal
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = x
	case float64:
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	default:
		parsed, err := decimal.NewFromString(fmt.Sprint(x))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
