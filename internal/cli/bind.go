package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/statuscard/pkg/steam"
	"github.com/matzehuels/statuscard/pkg/store"
)

// bindCommand creates the "bind" command group for managing
// group → user → Steam account bindings.
func (c *CLI) bindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Manage group bindings to Steam accounts",
	}

	cmd.AddCommand(c.bindAddCommand())
	cmd.AddCommand(c.bindListCommand())
	cmd.AddCommand(c.bindRemoveCommand())
	cmd.AddCommand(c.bindParentCommand())
	cmd.AddCommand(c.bindMuteCommand())

	return cmd
}

// openStore builds the configured bindings store for a bind subcommand.
func (c *CLI) openStore(cmd *cobra.Command) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return newStore(cmd.Context(), cfg)
}

func (c *CLI) bindAddCommand() *cobra.Command {
	var nickname string

	cmd := &cobra.Command{
		Use:   "add <parent-id> <user-id> <steam-id>",
		Short: "Bind a user to a Steam account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate up front so the store never holds junk IDs.
			if _, err := steam.ResolveID(args[2]); err != nil {
				return err
			}

			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			err = st.SetBinding(cmd.Context(), args[0], store.Binding{
				UserID:   args[1],
				SteamID:  args[2],
				Nickname: nickname,
			})
			if err != nil {
				return err
			}
			printSuccess("Bound %s to %s", args[1], args[2])
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "display nickname shown on cards")
	return cmd
}

func (c *CLI) bindListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <parent-id>",
		Short: "List bindings for a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			bindings, err := st.Bindings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(bindings) == 0 {
				printInfo("No bindings for group %s", args[0])
				return nil
			}
			for _, b := range bindings {
				value := b.SteamID
				if b.Nickname != "" {
					value += " (" + b.Nickname + ")"
				}
				printKeyValue(b.UserID, value)
			}
			return nil
		},
	}
}

func (c *CLI) bindRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <parent-id> <user-id>",
		Short: "Remove a user's binding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.RemoveBinding(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Removed binding for %s", args[1])
			return nil
		},
	}
}

func (c *CLI) bindParentCommand() *cobra.Command {
	var (
		name   string
		avatar string
	)

	cmd := &cobra.Command{
		Use:   "parent <parent-id>",
		Short: "Set a group's display name and avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			err = st.SetParent(cmd.Context(), store.Parent{
				ID:     args[0],
				Name:   name,
				Avatar: avatar,
			})
			if err != nil {
				return err
			}
			printSuccess("Updated group %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "group display name for the roster header")
	cmd.Flags().StringVar(&avatar, "avatar", "", "group avatar: file path or URL")
	return cmd
}

func (c *CLI) bindMuteCommand() *cobra.Command {
	var unmute bool

	cmd := &cobra.Command{
		Use:   "mute <parent-id>",
		Short: "Mute or unmute gaming-start broadcasts for a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SetMuted(cmd.Context(), args[0], !unmute); err != nil {
				return err
			}
			if unmute {
				printSuccess("Unmuted broadcasts for %s", args[0])
			} else {
				printSuccess("Muted broadcasts for %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unmute, "off", false, "unmute instead of mute")
	return cmd
}
