package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"modelreviews/internal/gallery"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:     "list <modelId>",
	Aliases: []string{"ls"},
	Short:   "List a model's reviews with the actions you can take",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modelID, err := parseID(args[0])
		if err != nil {
			return err
		}
		return listRun(cmd.Context(), modelID)
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum reviews to show")
	rootCmd.AddCommand(listCmd)
}

func listRun(ctx context.Context, modelID int64) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reviews, err := newClient().ListReviews(ctx, modelID, listLimit, 0)
	if err != nil {
		return fmt.Errorf("list reviews: %w", err)
	}
	if len(reviews) == 0 {
		ui.Info("No reviews for model %d.", modelID)
		return nil
	}

	table := ui.Table([]string{"ID", "Author", "Rating", "Review", "Images", "Actions"})
	for _, card := range gallery.BuildCards(currentSession(), reviews) {
		_ = table.Append([]string{
			cyan(strconv.FormatInt(card.ReviewID, 10)),
			card.AuthorID,
			fmt.Sprintf("%.1f", card.Rating),
			reviewText(card),
			imagesCell(card.Images),
			menuCell(card),
		})
	}
	_ = table.Render()
	return nil
}

func reviewText(card gallery.Card) string {
	text := card.Text
	if len([]rune(text)) > 48 {
		text = string([]rune(text)[:47]) + "…"
	}
	if card.NSFW {
		text = red("[NSFW]") + " " + text
	}
	return text
}

func imagesCell(region gallery.ImageRegion) string {
	switch {
	case !region.Visible:
		return "-"
	case region.Navigation:
		return fmt.Sprintf("%d ‹›", region.CountBadge)
	default:
		return "1"
	}
}

func menuCell(card gallery.Card) string {
	labels := make([]string, 0, len(card.Menu))
	for _, item := range card.Menu {
		labels = append(labels, item.Label)
	}
	return strings.Join(labels, ", ")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
