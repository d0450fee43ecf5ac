package repository

import (
	"context"

	repo "bookstore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	books     repo.BookRepository
	inventory repo.InventoryRepository
}

func (r *txReposGorm) Carts() repo.CartRepository          { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository  { return r.cartItems }
func (r *txReposGorm) Books() repo.BookRepository          { return r.books }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			carts:     NewCartGormRepository(tx),
			cartItems: NewCartItemGormRepository(tx),
			books:     NewBookGormRepository(tx),
			inventory: NewInventoryGormRepository(tx),
		}
		return fn(r)
	})
}
