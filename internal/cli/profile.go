package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statuscard/pkg/pipeline"
)

// profileCommand creates the "profile" command.
func (c *CLI) profileCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "profile <steam-id>",
		Short: "Render the full status card for one player",
		Long: `Render the full status card for one player: mosaic background, avatar,
bio, and recent titles with achievement progress.

The argument is a SteamID64 or a friend code; friend codes are converted
automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			sp := newSpinnerWithContext(cmd.Context(), "Fetching profile data")
			sp.Start()
			res, err := runner.RenderProfile(cmd.Context(), pipeline.ProfileOptions{
				ID:      args[0],
				Refresh: refresh,
			})
			sp.Stop()
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("profile_%s.png", args[0])
			}
			if err := os.WriteFile(output, res.PNG, 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			prog.done("Rendered profile card")
			printFile(output)
			printRenderStats(len(res.PNG), res.CacheHit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default profile_<id>.png)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when a cached card exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable all caching")
	return cmd
}
