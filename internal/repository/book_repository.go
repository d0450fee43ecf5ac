package repository

import (
	"bookstore/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索（書名の部分一致、大文字小文字は区別しない）
type BookListQuery struct {
	Name string
}

// 書籍の永続化（保存・取得）だけを約束。
// 在庫の増減はInventoryRepositoryが担当する。
type BookRepository interface {
	List(ctx context.Context, q BookListQuery) ([]model.Book, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error
	SoftDelete(ctx context.Context, id int64) error
}
