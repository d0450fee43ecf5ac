package model

import "time"

// カートの明細。
// (cart_id, book_id)で1行。UnitPriceは数量更新のたびに
// その時点のBook.Priceを取り直す。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_book" json:"cart_id"`
	BookID    int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_book" json:"book_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null;column:unit_price" json:"unit_price"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
