package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
	"github.com/DevWeb31/phuong-long-sub002/pkg/repositories"
)

// SiteFlags is the read-through accessor for the site-wide flags. Every
// call reaches the configuration storage; there is no process-level cache,
// so a toggle takes effect on the next request. Read failures default the
// flag to off and are logged: the flags are an administrative convenience,
// not the security boundary of last resort, and the gate must keep serving.
type SiteFlags struct {
	repo   repositories.SiteConfigRepository
	logger *zap.Logger
}

// NewSiteFlags creates the flag accessor.
func NewSiteFlags(repo repositories.SiteConfigRepository, logger *zap.Logger) *SiteFlags {
	return &SiteFlags{repo: repo, logger: logger}
}

// MaintenanceEnabled reads the maintenance flag.
func (s *SiteFlags) MaintenanceEnabled(ctx context.Context) bool {
	return s.read(ctx, models.FlagMaintenanceMode)
}

// ShopHidden reads the shop visibility flag.
func (s *SiteFlags) ShopHidden(ctx context.Context) bool {
	return s.read(ctx, models.FlagShopHidden)
}

// SetMaintenance writes the maintenance flag.
func (s *SiteFlags) SetMaintenance(ctx context.Context, enabled bool) error {
	return s.repo.SetFlag(ctx, models.FlagMaintenanceMode, enabled)
}

// SetShopHidden writes the shop visibility flag.
func (s *SiteFlags) SetShopHidden(ctx context.Context, hidden bool) error {
	return s.repo.SetFlag(ctx, models.FlagShopHidden, hidden)
}

// Snapshot reads both flags with errors surfaced, for the admin endpoint.
func (s *SiteFlags) Snapshot(ctx context.Context) (maintenance, shopHidden bool, err error) {
	maintenance, err = s.repo.GetFlag(ctx, models.FlagMaintenanceMode)
	if err != nil {
		return false, false, err
	}
	shopHidden, err = s.repo.GetFlag(ctx, models.FlagShopHidden)
	if err != nil {
		return false, false, err
	}
	return maintenance, shopHidden, nil
}

func (s *SiteFlags) read(ctx context.Context, key string) bool {
	value, err := s.repo.GetFlag(ctx, key)
	if err != nil {
		s.logger.Warn("Config flag read failed, defaulting to off",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return value
}
