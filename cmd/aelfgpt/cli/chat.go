package cli

import (
	"github.com/spf13/cobra"

	"aelfgpt/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive terminal chat",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, _, cleanup, err := bootstrap(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		sess, _ := a.Sessions.GetOrCreate("")
		return tui.Run(ctx, tui.New(a.Chat, sess, tui.DefaultStyles()))
	},
}
