package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/lydakis/cadmcp/internal/response"
	"github.com/lydakis/cadmcp/internal/tools"
)

func newCallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [--param value ...|'{json}']",
		Short: "Invoke one CAD tool from the shell",
		Long: "Invoke one CAD tool and print its result. Arguments are given as --param value\n" +
			"flags, as one JSON object, or as a JSON object on stdin.\n\n" +
			"Exit codes: 0 success, 1 AutoCAD reported an error, 2 invalid arguments,\n" +
			"3 AutoCAD unreachable or transport failure.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, opts, args)
		},
	}
}

func runCall(cmd *cobra.Command, opts *globalOptions, args []string) error {
	stdin := cmd.InOrStdin()
	parsed, err := parseToolCallArgs(args, stdin, stdinIsTTY(stdin))
	if err != nil {
		return exitError(response.ExitUsageErr, "%v", err)
	}

	if parsed.tool == "" {
		if parsed.help {
			return cmd.Help()
		}
		return exitError(response.ExitUsageErr, "missing tool name (see cadmcp tools)")
	}
	if parsed.help {
		spec, ok := tools.NewRegistry().Lookup(parsed.tool)
		if !ok {
			return exitError(response.ExitUsageErr, "unknown tool: %s", parsed.tool)
		}
		printToolHelp(cmd.OutOrStdout(), spec)
		return nil
	}

	callOpts := parsed.merge(opts)
	sess, err := openSession(cmd.Context(), &callOpts, cmd.ErrOrStderr(), "")
	if err != nil {
		return err
	}
	defer sess.Close()

	out := sess.dispatcher.Invoke(cmd.Context(), parsed.tool, parsed.toolArgs)
	if out.Class == response.OK {
		fmt.Fprintln(cmd.OutOrStdout(), out.Text)
		return nil
	}
	if !parsed.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), out.Text)
	}
	return silentExit(response.ExitCode(out.Class))
}

func stdinIsTTY(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&fs.ModeCharDevice != 0
}
