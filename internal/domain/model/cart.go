package model

import "time"

type CartStatus string

const (
	CartStatusOpen   CartStatus = "OPEN"
	CartStatusPlaced CartStatus = "PLACED"
)

// 1ユーザーにつきOPENは1つ（部分ユニークインデックスで保証）。
// TotalQuantity/TotalPriceは明細からの全件再計算でのみ更新する。
type Cart struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64      `gorm:"not null;index" json:"user_id"`
	Status        CartStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalQuantity int64      `gorm:"not null;default:0" json:"total_quantity"`
	TotalPrice    int64      `gorm:"not null;default:0" json:"total_price"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
