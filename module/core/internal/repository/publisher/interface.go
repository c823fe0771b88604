package publisher

import (
	"context"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type RegionPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.RegionAlert) error
}
