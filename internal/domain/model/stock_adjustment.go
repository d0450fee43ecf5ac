package model

import "time"

// 在庫調整の履歴（出品者の補充など）。
type StockAdjustment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID    int64     `gorm:"not null;index" json:"book_id"`
	SellerID  int64     `gorm:"not null;index" json:"seller_id"`
	Delta     int64     `gorm:"not null" json:"delta"`
	Reason    string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
