package repository

import "context"

// 既定グループの永続化。Ensureは冪等（既にあれば何もしない）。
type UserGroupRepository interface {
	Ensure(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}
