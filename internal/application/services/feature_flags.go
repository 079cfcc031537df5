package services

import "github.com/zatekoja/hms-frontdesk/pkg/config"

type FeatureFlags struct {
	routePreloadEnabled bool
}

func NewFeatureFlags(cfg config.FeatureConfig) *FeatureFlags {
	return &FeatureFlags{
		routePreloadEnabled: cfg.RoutePreload,
	}
}

func (f *FeatureFlags) RoutePreloadEnabled() bool {
	return f != nil && f.routePreloadEnabled
}
