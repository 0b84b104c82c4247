package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/codenest/erp-backend/internal/domain/user"
	"github.com/spf13/cobra"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List identities that never received a staff profile",
	Long: `List identities left without a profile by a failed sign-up.

Such accounts can sign in but only ever see the fallback access state.
Pass --delete to remove them so the person can sign up again.

Examples:
  nestctl orphans
  nestctl orphans --older-than 1h --delete`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		limit, _ := cmd.Flags().GetInt("limit")
		del, _ := cmd.Flags().GetBool("delete")

		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		return listOrphans(cmd.Context(), s.users, time.Now().Add(-olderThan), limit, del, cmd.OutOrStdout())
	},
}

func listOrphans(ctx context.Context, users user.UserRepository, cutoff time.Time, limit int, del bool, out io.Writer) error {
	orphans, err := users.ListWithoutProfile(ctx, cutoff, limit)
	if err != nil {
		return err
	}

	if len(orphans) == 0 {
		fmt.Fprintln(out, "No orphaned identities")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "USER ID\tEMAIL\tCREATED")
	for _, u := range orphans {
		o := user.NewOrphanResponse(u)
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.ID, o.Email, o.CreatedAt)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !del {
		return nil
	}

	deleted := 0
	for _, u := range orphans {
		// A profile written since the listing keeps the identity.
		if err := users.DeleteWithoutProfile(ctx, u.ID); err != nil {
			fmt.Fprintf(out, "skip %s: %v\n", u.ID, err)
			continue
		}
		deleted++
	}
	fmt.Fprintf(out, "Deleted %d of %d orphaned identities\n", deleted, len(orphans))
	return nil
}

func init() {
	orphansCmd.Flags().Duration("older-than", 10*time.Minute, "only list identities created before this age")
	orphansCmd.Flags().Int("limit", 100, "maximum number of identities to list")
	orphansCmd.Flags().Bool("delete", false, "delete the listed identities")

	rootCmd.AddCommand(orphansCmd)
}
