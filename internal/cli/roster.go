package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statuscard/pkg/pipeline"
)

// rosterCommand creates the "roster" command.
func (c *CLI) rosterCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "roster <parent-id>",
		Short: "Render the friends-list card for a bound group",
		Long: `Render the friends-list card for a group: everyone bound to the group
via "statuscard bind", classified into gaming / online / offline sections.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			sp := newSpinnerWithContext(cmd.Context(), "Fetching player summaries")
			sp.Start()
			res, err := runner.RenderRoster(cmd.Context(), pipeline.RosterOptions{
				ParentID: args[0],
				Refresh:  refresh,
			})
			sp.Stop()
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("roster_%s.png", args[0])
			}
			if err := os.WriteFile(output, res.PNG, 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			prog.done("Rendered roster card")
			printFile(output)
			printRenderStats(len(res.PNG), res.CacheHit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default roster_<parent>.png)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when a cached card exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable all caching")
	return cmd
}
