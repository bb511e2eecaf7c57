package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money goes over the wire as a JSON number, the way the storefront expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is owned by the catalog. Quantity is advisory and is never
// decremented by order intake.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"not null"`
	Slug        string          `json:"slug" gorm:"type:varchar(191);uniqueIndex"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Image       string          `json:"image"`
	InStock     bool            `json:"inStock"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
