package repository

import (
	"context"
	"errors"
	"strings"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"gorm.io/gorm"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// 書名の部分一致（大文字小文字は区別しない）で一覧を返す。
func (r *BookGormRepository) List(ctx context.Context, q repo.BookListQuery) ([]model.Book, error) {
	var books []model.Book

	tx := r.db.WithContext(ctx).Model(&model.Book{})

	if strings.TrimSpace(q.Name) != "" {
		like := "%" + strings.TrimSpace(q.Name) + "%"
		tx = tx.Where("name ILIKE ?", like)
	}

	if err := tx.Order("id asc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}

	return books, nil
}

// IDで書籍を取得
func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

// 書籍の作成
func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, err
	}
	return b, nil
}

// 書籍の更新（在庫はここでは触らない）
func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":         b.Name,
		"author":       b.Author,
		"description":  b.Description,
		"price":        b.Price,
		"publish_date": b.PublishDate,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 書籍削除
func (r *BookGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
