package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// Start wires up the service's background concerns: event-driven
// notifications and the revocation sweeper.
func Start(ctx context.Context, deps Dependencies) {
	if deps.Notifications != nil {
		deps.Notifications.RegisterHandlers()
	}
	if deps.Revoked != nil {
		deps.Revoked.StartSweeper(ctx, deps.SweepInterval, deps.Logger)
	}
}

// Dependencies bundles background worker requirements.
type Dependencies struct {
	Notifications *service.NotificationService
	Revoked       *auth.RevocationRegistry
	SweepInterval time.Duration
	Logger        *zap.Logger
}
