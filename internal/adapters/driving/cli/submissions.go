package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect the review queue",
}

var submissionsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List submissions created by approvals",
	Annotations: needsServices(),
	RunE:        runSubmissionsList,
}

func init() {
	submissionsCmd.AddCommand(submissionsListCmd)
	rootCmd.AddCommand(submissionsCmd)
}

func runSubmissionsList(cmd *cobra.Command, _ []string) error {
	if services.Submissions == nil {
		return errors.New("the configured submission store cannot list submissions")
	}

	subs, err := services.Submissions.ListSubmissions(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing submissions: %w", err)
	}
	if len(subs) == 0 {
		cmd.Println("No submissions")
		return nil
	}

	now := time.Now()
	for _, s := range subs {
		cmd.Printf("%s  %-8s %-6s %-14s %-32s %s by %s\n",
			s.ID, s.Status, s.SubmissionType, s.ObjectType, s.ObjectName,
			humanize.RelTime(s.CreatedAt, now, "ago", "from now"), s.Submitter)
	}
	return nil
}
