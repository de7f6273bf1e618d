package models

import "time"

// Transaction is one sale record imported from the seed feed.
// ID comes from the feed and is not unique; RowID is the storage key
// and defines scan order.
type Transaction struct {
	RowID       uint      `json:"-" gorm:"column:row_id;primaryKey;autoIncrement"`
	ID          int64     `json:"id" gorm:"column:id;index"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"size:191;index"`
	Image       string    `json:"image"`
	Sold        bool      `json:"sold"`
	DateOfSale  time.Time `json:"dateOfSale" gorm:"column:date_of_sale;index"`
}

// SaleMonth returns the calendar month (1-12) of DateOfSale in UTC.
func (t Transaction) SaleMonth() int {
	return int(t.DateOfSale.UTC().Month())
}
