package database

import (
	"context"

	"liquor-delivery/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{
			Name:        "Johnnie Walker Black Label",
			Slug:        "johnnie-walker-black",
			Description: "A rich, smooth blend with deep flavors of vanilla and dried fruit.",
			Price:       decimal.NewFromInt(4500),
			InStock:     true,
			Quantity:    20,
		},
		{
			Name:        "Jameson Irish Whiskey",
			Slug:        "jameson-irish",
			Description: "Triple distilled Irish whiskey with a smooth, mild flavor.",
			Price:       decimal.NewFromInt(3200),
			InStock:     true,
			Quantity:    15,
		},
		{
			Name:        "Smirnoff Vodka",
			Slug:        "smirnoff-vodka",
			Description: "Classic triple distilled vodka, perfect for cocktails.",
			Price:       decimal.NewFromInt(1800),
			InStock:     true,
			Quantity:    30,
		},
		{
			Name:        "Tusker Lager (6-pack)",
			Slug:        "tusker-lager",
			Description: "Kenya's favorite lager beer, crisp and refreshing.",
			Price:       decimal.NewFromInt(1200),
			InStock:     true,
			Quantity:    50,
		},
	}
}

// Seed writes the default settings row and the sample catalog inside one
// transaction. Rows that already exist (by settings id or product slug) are
// kept as they are. It returns the number of products inserted.
func Seed(ctx context.Context, db *gorm.DB) (int64, error) {
	var inserted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		settings := domain.DefaultSettings()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; err != nil {
			return err
		}

		products := sampleCatalog()
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&products)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	return inserted, err
}
