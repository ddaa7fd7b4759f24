package infra

import "context"

type MenuClientInterface interface {
	GetMenuItem(ctx context.Context, id uint64) (*MenuItemInfo, error)
}

var _ MenuClientInterface = (*MenuClient)(nil)
