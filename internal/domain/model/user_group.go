package model

import "time"

// 既定グループ（seller / buyer）。
// 起動時のbootstrapが冪等に作成する。保存フックでは作らない。
type UserGroup struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

const (
	GroupSeller = "seller"
	GroupBuyer  = "buyer"
)
