package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the primary key of the single settings row.
const SettingsID = "settings"

type Settings struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StoreName    string `json:"storeName"`
	StorePhone   string `json:"storePhone"`
	StoreEmail   string `json:"storeEmail"`
	StoreAddress string `json:"storeAddress"`

	MpesaEnabled        bool   `json:"mpesaEnabled"`
	MpesaPaybillNumber  string `json:"mpesaPaybillNumber"`
	MpesaAccountNumber  string `json:"mpesaAccountNumber"`
	MpesaTillNumber     string `json:"mpesaTillNumber"`
	MpesaConsumerKey    string `json:"mpesaConsumerKey"`
	MpesaConsumerSecret string `json:"mpesaConsumerSecret"`
	MpesaPasskey        string `json:"mpesaPasskey"`
	MpesaShortcode      string `json:"mpesaShortcode"`

	ManualPaymentPhone        string `json:"manualPaymentPhone"`
	ManualPaymentName         string `json:"manualPaymentName"`
	ManualPaymentInstructions string `json:"manualPaymentInstructions"`

	DeliveryFee  decimal.Decimal `json:"deliveryFee" gorm:"type:decimal(12,2);not null"`
	MinimumOrder decimal.Decimal `json:"minimumOrder" gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                        SettingsID,
		StoreName:                 "Liquor Delivery",
		ManualPaymentPhone:        "0712345678",
		ManualPaymentName:         "Store Name",
		ManualPaymentInstructions: "Send payment to the number above and include your order number as the reference.",
		DeliveryFee:               decimal.NewFromInt(200),
		MinimumOrder:              decimal.NewFromInt(500),
	}
}

// PublicSettings is what the storefront may see. M-Pesa API credentials are
// left out.
type PublicSettings struct {
	StoreName                 string          `json:"storeName"`
	StorePhone                string          `json:"storePhone"`
	StoreEmail                string          `json:"storeEmail"`
	StoreAddress              string          `json:"storeAddress"`
	MpesaEnabled              bool            `json:"mpesaEnabled"`
	MpesaPaybillNumber        string          `json:"mpesaPaybillNumber"`
	MpesaAccountNumber        string          `json:"mpesaAccountNumber"`
	MpesaTillNumber           string          `json:"mpesaTillNumber"`
	ManualPaymentPhone        string          `json:"manualPaymentPhone"`
	ManualPaymentName         string          `json:"manualPaymentName"`
	ManualPaymentInstructions string          `json:"manualPaymentInstructions"`
	DeliveryFee               decimal.Decimal `json:"deliveryFee"`
	MinimumOrder              decimal.Decimal `json:"minimumOrder"`
}

func (s Settings) Public() PublicSettings {
	return PublicSettings{
		StoreName:                 s.StoreName,
		StorePhone:                s.StorePhone,
		StoreEmail:                s.StoreEmail,
		StoreAddress:              s.StoreAddress,
		MpesaEnabled:              s.MpesaEnabled,
		MpesaPaybillNumber:        s.MpesaPaybillNumber,
		MpesaAccountNumber:        s.MpesaAccountNumber,
		MpesaTillNumber:           s.MpesaTillNumber,
		ManualPaymentPhone:        s.ManualPaymentPhone,
		ManualPaymentName:         s.ManualPaymentName,
		ManualPaymentInstructions: s.ManualPaymentInstructions,
		DeliveryFee:               s.DeliveryFee,
		MinimumOrder:              s.MinimumOrder,
	}
}
