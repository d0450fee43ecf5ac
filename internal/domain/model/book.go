package model

import (
	"time"

	"gorm.io/gorm"
)

// 書籍カタログ。
// Stockは注文確定/キャンセルと出品者の在庫調整だけが更新する。
// カート操作からは直接更新しない。
type Book struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Author      string         `gorm:"type:varchar(255);not null;index" json:"author"`
	Description string         `gorm:"type:text" json:"description"`
	SellerID    int64          `gorm:"not null;index" json:"seller_id"`
	Price       int64          `gorm:"not null" json:"price"`
	PublishDate time.Time      `gorm:"type:date" json:"publish_date"`
	Stock       int64          `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
