package cli

import (
	"github.com/spf13/cobra"

	"github.com/lydakis/cadmcp/internal/response"
	"github.com/lydakis/cadmcp/internal/tools"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools [tool]",
		Short: "List the CAD tools, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTools,
	}
	cmd.Flags().StringP("output", "o", "text", "Output format: text | json | yaml")
	return cmd
}

func runTools(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("output")
	mode, err := parseOutputMode(raw)
	if err != nil {
		return exitError(response.ExitUsageErr, "%v", err)
	}

	reg := tools.NewRegistry()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		spec, ok := reg.Lookup(args[0])
		if !ok {
			return exitError(response.ExitUsageErr, "unknown tool: %s", args[0])
		}
		if mode == outputModeText {
			printToolHelp(out, spec)
			return nil
		}
		return writeOrFail(writeStructured(out, mode, newToolListEntry(spec)))
	}

	entries := make([]toolListEntry, 0, len(reg.Specs()))
	for _, spec := range reg.Specs() {
		entries = append(entries, newToolListEntry(spec))
	}
	if mode == outputModeText {
		return writeOrFail(writeToolListText(out, entries))
	}
	return writeOrFail(writeStructured(out, mode, entries))
}

func writeOrFail(err error) error {
	if err != nil {
		return exitError(response.ExitInternal, "%v", err)
	}
	return nil
}
