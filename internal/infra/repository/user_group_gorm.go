package repository

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/domain/model"
	domainrepo "bookstore/internal/repository"

	"gorm.io/gorm"
)

type userGroupGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserGroupGormRepository(db *gorm.DB) domainrepo.UserGroupRepository {
	return &userGroupGormRepository{db: db}
}

// 無ければ作る。既にあれば何もしない（何度呼んでも同じ）。
func (r *userGroupGormRepository) Ensure(ctx context.Context, name string) error {
	var g model.UserGroup

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&g).Error

	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	g = model.UserGroup{Name: name, CreatedAt: time.Now()}
	if createErr := r.db.WithContext(ctx).Create(&g).Error; createErr != nil {
		// 同時起動でユニーク制約に弾かれたら、もう作られている
		var again model.UserGroup
		if retryErr := r.db.WithContext(ctx).Where("name = ?", name).First(&again).Error; retryErr == nil {
			return nil
		}
		return createErr
	}

	return nil
}

func (r *userGroupGormRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.UserGroup{}).
		Where("name = ?", name).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}
