package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/spf13/cobra"
)

// cliActor is recorded as the acting user for changes made from nestctl.
const cliActor = "nestctl"

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect and approve staff profiles",
}

var profilesPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List profiles waiting for approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		return listPending(cmd.Context(), s.profiles, limit, cmd.OutOrStdout())
	},
}

var profilesApproveCmd = &cobra.Command{
	Use:   "approve [user-id]",
	Short: "Approve a pending profile",
	Long: `Approve a pending profile so the staff member reaches the employee dashboard.

Examples:
  nestctl profiles approve 0192f0c1-7b7e-7c4e-9a55-3f1c2d0e8a11`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		return approveProfile(cmd.Context(), s.profiles, args[0], cmd.OutOrStdout())
	},
}

func listPending(ctx context.Context, profiles profile.ProfileService, limit int, out io.Writer) error {
	pending, err := profiles.List(ctx, profile.ListProfilesFilter{Status: profile.StatusPending, Limit: limit})
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		fmt.Fprintln(out, "No profiles waiting for approval")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "USER ID\tNAME\tEMAIL\tSIGNED UP")
	for _, p := range pending {
		email := ""
		if p.Email != nil {
			email = *p.Email
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.UserID, p.FullName, email, p.CreatedAt)
	}
	return w.Flush()
}

func approveProfile(ctx context.Context, profiles profile.ProfileService, userID string, out io.Writer) error {
	p, err := profiles.Approve(ctx, cliActor, userID)
	if err != nil {
		return fmt.Errorf("approve %s: %w", userID, err)
	}

	fmt.Fprintf(out, "Approved %s (%s)\n", p.FullName, p.UserID)
	return nil
}

func init() {
	profilesPendingCmd.Flags().Int("limit", 50, "maximum number of profiles to list")

	profilesCmd.AddCommand(profilesPendingCmd)
	profilesCmd.AddCommand(profilesApproveCmd)
	rootCmd.AddCommand(profilesCmd)
}
