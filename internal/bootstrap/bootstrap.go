package bootstrap

import (
	"context"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"
)

// EnsureDefaultGroups は既定グループ（seller/buyer）を冪等に作る。
// プロセス起動時に1回呼ぶ。ユーザー保存のたびに走るフックにはしない。
func EnsureDefaultGroups(ctx context.Context, groups repository.UserGroupRepository) error {
	for _, name := range []string{model.GroupSeller, model.GroupBuyer} {
		if err := groups.Ensure(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
