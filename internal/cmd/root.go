package cmd

import (
	"context"
	"fmt"

	"github.com/codenest/erp-backend/internal/config"
	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/user"
	"github.com/codenest/erp-backend/internal/pkg/cron"
	"github.com/codenest/erp-backend/internal/pkg/database"
	"github.com/codenest/erp-backend/internal/pkg/sse"
	"github.com/codenest/erp-backend/internal/repository/postgresql"
	profileService "github.com/codenest/erp-backend/internal/service/profile"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nestctl",
	Short: "Administration tool for the Code Nest ERP backend",
	Long: `nestctl runs maintenance tasks against the ERP database.

It reads the same .env and environment variables as the API server.`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// store holds what commands need from the database
type store struct {
	users    user.UserRepository
	profiles profile.ProfileService
	jobs     *cron.SessionJobs
	close    func()
}

// openStore is replaced in tests.
var openStore = func(ctx context.Context) (*store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// This hub lives in the CLI process and has no subscribers. Open API
	// streams see CLI changes at their next keepalive recheck.
	hub := sse.NewHub()
	users := postgresql.NewUserRepository(db)

	return &store{
		users:    users,
		profiles: profileService.NewProfileService(postgresql.NewProfileRepository(db), hub),
		jobs:     cron.NewSessionJobs(postgresql.NewSessionRepository(db), users, cfg.Cron.SessionRetention),
		close:    db.Close,
	}, nil
}
