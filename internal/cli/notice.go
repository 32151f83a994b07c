package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statuscard/pkg/pipeline"
)

// noticeCommand creates the "notice" command.
func (c *CLI) noticeCommand() *cobra.Command {
	var (
		output   string
		parentID string
	)

	cmd := &cobra.Command{
		Use:   "notice <steam-id>",
		Short: "Render the gaming-start banner for one player",
		Long: `Render the small "X 正在玩 Y" banner for a player who is currently in a
game. Fails when the player is not playing anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			res, err := runner.RenderNotice(cmd.Context(), pipeline.NoticeOptions{
				ID:       args[0],
				ParentID: parentID,
			})
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("notice_%s.png", args[0])
			}
			if err := os.WriteFile(output, res.PNG, 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			prog.done("Rendered gaming notice")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default notice_<id>.png)")
	cmd.Flags().StringVar(&parentID, "parent", "", "group to resolve the nickname from")
	return cmd
}
