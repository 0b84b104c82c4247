package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetOverview returns combined admin overview data using goroutines
	GetOverview(ctx context.Context) (*OverviewResponse, error)
}
