package repository

import (
	"context"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす。
// stock >= qty の条件付きUPDATE1文なので、同時に走っても負数にはならない。
func (r *InventoryGormRepository) DecrementStockIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ? AND stock >= ?", bookID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（キャンセル）
func (r *InventoryGormRepository) IncrementStock(ctx context.Context, bookID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", bookID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫の現在値を設定（補充）
func (r *InventoryGormRepository) SetStock(ctx context.Context, bookID int64, newStock int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", bookID).
		Update("stock", newStock)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return err
	}
	return nil
}
