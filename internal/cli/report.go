package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"modelreviews/internal/models"
	"modelreviews/internal/moderation"
)

var errReportNotSent = errors.New("report was not sent")

var (
	reportReason     string
	reportReturnPath string
)

var reportCmd = &cobra.Command{
	Use:   "report <reviewId>",
	Short: "Report someone else's review",
	Long: `Report a review as NSFW or as a terms of service violation.
Without --reason the available reasons are offered as a menu.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return reportRun(cmd.Context(), id)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportReason, "reason", "", "nsfw or tos")
	reportCmd.Flags().StringVar(&reportReturnPath, "return-path", "", "Page to come back to after signing in")
	rootCmd.AddCommand(reportCmd)
}

func reportRun(ctx context.Context, id int64) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client := newClient()
	review, err := client.GetReview(ctx, id)
	if err != nil {
		return fmt.Errorf("load review: %w", err)
	}

	wf, release := newWorkflow(ctx, client)
	defer release()

	var reason models.ReportReason
	if reportReason != "" {
		if reason, err = models.ParseReportReason(reportReason); err != nil {
			return err
		}
	} else if reason, err = chooseReason(wf.Menu(review)); err != nil {
		return err
	}

	returnPath := reportReturnPath
	if returnPath == "" {
		returnPath = fmt.Sprintf("/models/%d?reviewId=%d", review.ModelID, review.ID)
	}

	result, err := wf.Report(ctx, review, reason, returnPath)
	if errors.Is(err, moderation.ErrNotPermitted) {
		return fmt.Errorf("review %d is yours; you cannot report it", id)
	}
	if err != nil {
		return err
	}
	if result == moderation.ReportFailed {
		return errReportNotSent
	}
	return nil
}

func chooseReason(menu []moderation.MenuItem) (models.ReportReason, error) {
	var items []moderation.MenuItem
	for _, item := range menu {
		if item.Action == moderation.ActionReport {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return "", errors.New("this review cannot be reported by you")
	}

	for i, item := range items {
		fmt.Fprintf(ui.Out, "  %d) %s\n", i+1, item.Label)
	}
	answer, err := ui.Ask(fmt.Sprintf("Reason [1-%d]:", len(items)))
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(items) {
		return "", fmt.Errorf("invalid choice %q", answer)
	}
	return items[n-1].Reason, nil
}
