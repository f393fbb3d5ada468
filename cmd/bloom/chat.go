package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/bloombot/pkg/log"
	"github.com/sandevgo/bloombot/pkg/srv"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with BloomBot in the terminal",
	Long:  `Starts an interactive terminal chat against the full pipeline, regardless of which transports are enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		services := NewChatServices(ctx)

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		log.FromCtx(ctx).Info().Msg("chat session ended")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
