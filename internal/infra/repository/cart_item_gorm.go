package repository

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// (cart, book)で明細を1件取得
func (r *CartItemGormRepository) FindByCartAndBook(ctx context.Context, cartID int64, bookID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND book_id = ?", cartID, bookID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 同一書籍は数量を置き換える（二重送信されても明細は1行のまま）。
// FOR UPDATEで既存行をロックしてから書く。
func (r *CartItemGormRepository) UpsertByCartAndBook(ctx context.Context, cartID int64, bookID int64, qty int64, unitPrice int64) error {

	if qty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND book_id = ?", cartID, bookID).
			First(&item).Error

		if err == nil {
			// 既存ありなら数量と価格スナップショットを上書き
			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"quantity":   qty,
					"unit_price": unitPrice,
				})

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 無い場合は新規作成。Createはsavepointに閉じ、
		// ユニーク制約に弾かれたら生きている外側で更新に切り替える
		now := time.Now()
		newItem := model.CartItem{
			CartID:    cartID,
			BookID:    bookID,
			Quantity:  qty,
			UnitPrice: unitPrice,
			CreatedAt: now,
			UpdatedAt: now,
		}

		createErr := tx.Transaction(func(inner *gorm.DB) error {
			return inner.Create(&newItem).Error
		})
		if createErr != nil {
			res := tx.Model(&model.CartItem{}).
				Where("cart_id = ? AND book_id = ?", cartID, bookID).
				Updates(map[string]interface{}{
					"quantity":   qty,
					"unit_price": unitPrice,
				})
			if res.Error == nil && res.RowsAffected > 0 {
				return nil
			}
			return createErr
		}

		return nil
	})
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByCartAndBook(ctx context.Context, cartID int64, bookID int64) error {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND book_id = ?", cartID, bookID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 合計をDB側で集計する
func (r *CartItemGormRepository) SumByCartID(ctx context.Context, cartID int64) (repo.CartTotals, error) {
	var totals repo.CartTotals

	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Select("COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(quantity * unit_price), 0) AS price").
		Where("cart_id = ?", cartID).
		Scan(&totals).Error

	if err != nil {
		return repo.CartTotals{}, err
	}
	return totals, nil
}
