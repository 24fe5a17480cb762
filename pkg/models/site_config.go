package models

import "time"

// Site configuration flag keys. Flags live in the relational store and are
// re-read on every request so an admin toggle takes effect without restart.
const (
	FlagMaintenanceMode = "maintenance_mode"
	FlagShopHidden      = "shop_hidden"
)

// SiteConfigEntry is one mutable configuration flag.
type SiteConfigEntry struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
