package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/lydakis/cadmcp/internal/response"
)

var (
	rootStdin    io.Reader = os.Stdin
	rootStdout   io.Writer = os.Stdout
	rootStderr   io.Writer = os.Stderr
	buildVersion           = "dev"
)

func init() {
	buildVersion = resolveBuildVersion(buildVersion)
}

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(rootStdin)
	root.SetOut(rootStdout)
	root.SetErr(rootStderr)
	return exitCode(root.ExecuteContext(context.Background()), rootStderr)
}

// NewRootCmd builds the cadmcp command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "cadmcp",
		Short: "MCP gateway for the AutoCAD command executor",
		Long: "cadmcp exposes AutoCAD drawing commands as MCP tools. Each call is sent to the\n" +
			"AutoCAD add-in over a local TCP connection.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersion,
	}
	root.SetVersionTemplate(fmt.Sprintf("cadmcp %s\n", buildVersion))

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default "+defaultConfigPath()+")")
	flags.StringVar(&opts.host, "host", "", "Executor host (overrides config)")
	flags.IntVar(&opts.port, "port", 0, "Executor port (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newToolsCmd())
	root.AddCommand(newCallCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return response.ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(stderr, "cadmcp: %s\n", exitErr.Message)
		}
		return exitErr.Code
	}

	// Everything cobra reports itself is a usage problem.
	fmt.Fprintf(stderr, "cadmcp: %v\n", err)
	return response.ExitUsageErr
}

func resolveBuildVersion(defaultVersion string) string {
	if defaultVersion != "" && defaultVersion != "dev" {
		return defaultVersion
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return defaultVersion
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return defaultVersion
	}
	return info.Main.Version
}
