package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lydakis/cadmcp/internal/mcpserver"
	"github.com/lydakis/cadmcp/internal/paths"
	"github.com/lydakis/cadmcp/internal/response"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the CAD tools over MCP stdio",
		Long: "Serve the CAD tools to an MCP client over stdin/stdout. Logs go to stderr and,\n" +
			"unless the config names another file, to " + paths.LogFile() + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *globalOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, opts, cmd.ErrOrStderr(), paths.LogFile())
	if err != nil {
		return err
	}
	defer sess.Close()

	srv := mcpserver.New(sess.dispatcher, buildVersion, sess.logger)
	if err := srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return exitError(response.ExitInternal, "serving MCP: %v", err)
	}
	sess.logger.Info().Msg("MCP client disconnected")
	return nil
}
