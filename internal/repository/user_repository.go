package repository

import (
	"context"

	"bookstore/internal/domain/model"
)

// Find系は見つからないときnilを返す（errorにはしない）
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}
