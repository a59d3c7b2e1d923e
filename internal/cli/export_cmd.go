package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var kidID, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a kid's milestones and tasks as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := app.Milestones.Tree(context.Background(), kidID)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			w := csv.NewWriter(out)
			header := []string{"kind", "id", "milestone_id", "title", "status", "progress_pct", "sentiment", "feedback"}
			if err := w.Write(header); err != nil {
				return err
			}
			for _, node := range nodes {
				m := node.Milestone
				row := []string{"milestone", m.ID, "", m.Title, string(m.Status), strconv.Itoa(node.Progress), string(m.Sentiment), m.ParentFeedback}
				if err := w.Write(row); err != nil {
					return err
				}
				for _, t := range node.Tasks {
					row := []string{"task", t.ID, t.MilestoneID, t.Title, string(t.Status), "", string(t.Sentiment), t.ParentFeedback}
					if err := w.Write(row); err != nil {
						return err
					}
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Printf("Exported %d milestones to %s\n", len(nodes), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kidID, "kid", "", "Kid profile ID")
	cmd.Flags().StringVar(&outPath, "out", "", "Write to a file instead of stdout")
	_ = cmd.MarkFlagRequired("kid")

	return cmd
}
