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

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのOPENカートを取得し、無ければ作成。
// 同時リクエストで二重に作らないよう、FOR UPDATEで探してから作る。
// 作成がユニーク制約に弾かれたら、勝った方をもう一度読む。
func (r *CartGormRepository) GetOrCreateOpenByUserID(ctx context.Context, userID int64) (model.Cart, error) {

	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, model.CartStatusOpen).
			Order("id desc").
			First(&cart).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		now := time.Now()
		newCart := model.Cart{
			UserID:    userID,
			Status:    model.CartStatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		}

		// Createだけsavepointに閉じる。ユニーク制約に弾かれても
		// 外のトランザクションは生きたままなので、勝った方を読み直せる
		createErr := tx.Transaction(func(inner *gorm.DB) error {
			return inner.Create(&newCart).Error
		})
		if createErr != nil {
			retryErr := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ? AND status = ?", userID, model.CartStatusOpen).
				Order("id desc").
				First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return createErr
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// ユーザーのOPENカートを行ロック付きで取得。
// 二重送信された注文確定は、先勝ちがPLACEDへ変えた後に
// 後追いがここでrecordを見失い、NoActiveCart側へ落ちる。
func (r *CartGormRepository) FindOpenByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, model.CartStatusOpen).
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 最新のPLACEDカート（キャンセル対象）を行ロック付きで取得
func (r *CartGormRepository) FindLatestPlacedByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, model.CartStatusPlaced).
		Order("updated_at desc").
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 注文履歴（PLACEDカート）を新しい順で返す
func (r *CartGormRepository) ListPlacedByUserID(ctx context.Context, userID int64) ([]model.Cart, error) {
	var carts []model.Cart

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.CartStatusPlaced).
		Order("updated_at desc").
		Order("id desc").
		Find(&carts).Error; err != nil {
		return []model.Cart{}, err
	}

	return carts, nil
}

// carts.statusを更新。
// 遷移元statusを条件に入れた1文のUPDATEなので、
// 同じ遷移が二重に適用されることはない（後追いは0行更新）。
func (r *CartGormRepository) UpdateStatus(ctx context.Context, cartID int64, from model.CartStatus, to model.CartStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ? AND status = ?", cartID, from).
		Update("status", to)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 合計（数量・金額）を書き込む
func (r *CartGormRepository) UpdateTotals(ctx context.Context, cartID int64, totalQuantity int64, totalPrice int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_quantity": totalQuantity,
			"total_price":    totalPrice,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カートを明細ごと削除（集約の削除は必ず同一トランザクション）
func (r *CartGormRepository) DeleteWithItems(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Where("id = ?", cartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Cart{}, cartID).Error
	})
}
