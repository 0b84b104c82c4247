package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/codenest/erp-backend/internal/pkg/cron"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run background maintenance jobs",
}

var jobsRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every maintenance job once",
	Long: `Run the session purge and orphan audit once, outside the API's scheduler.

Use it where the API runs with CRON_ENABLED=false.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		return runJobs(cmd.Context(), s.jobs, cmd.OutOrStdout())
	},
}

func runJobs(ctx context.Context, jobs *cron.SessionJobs, out io.Writer) error {
	scheduler := cron.NewScheduler()
	jobs.RegisterJobs(scheduler, 0, 0)

	if err := scheduler.RunOnce(ctx); err != nil {
		return err
	}

	for _, name := range scheduler.JobNames() {
		fmt.Fprintf(out, "%s: ok\n", name)
	}
	return nil
}

func init() {
	jobsCmd.AddCommand(jobsRunCmd)
	rootCmd.AddCommand(jobsCmd)
}
