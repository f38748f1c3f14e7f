package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modelreviews/internal/moderation"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <reviewId>",
	Aliases: []string{"rm"},
	Short:   "Delete one of your reviews",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return deleteRun(cmd.Context(), id)
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func deleteRun(ctx context.Context, id int64) error {
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

	if err := wf.RequestDelete(review); err != nil {
		if errors.Is(err, moderation.ErrNotPermitted) {
			return fmt.Errorf("review %d is not yours to delete", id)
		}
		return err
	}

	gate := wf.Gate()
	question := "Delete review?"
	for gate.State() == moderation.GateOpen {
		ok := deleteYes
		if !ok {
			ui.Warning("%s", gate.Warning())
			if ok, err = ui.Confirm(question); err != nil {
				_ = gate.Cancel()
				return err
			}
		}
		if !ok {
			_ = gate.Cancel()
			ui.Info("Cancelled.")
			return nil
		}

		if err := gate.Confirm(ctx); err != nil {
			if deleteYes {
				_ = gate.Cancel()
				return err
			}
			question = "Try again?"
		}
	}

	ui.Success("Review %d deleted", id)
	return nil
}
