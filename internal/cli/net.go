package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laidout/impose/pkg/net"
	"github.com/laidout/impose/pkg/pipeline"
)

func netNames() []string {
	return net.BuiltinNames()
}

// netCommand creates the net command for inspecting built-in polyhedron nets.
func (c *CLI) netCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "net",
		Short: "Inspect built-in polyhedron nets",
	}

	cmd.AddCommand(c.netListCommand())
	cmd.AddCommand(c.netGraphCommand())

	return cmd
}

// netListCommand creates the "net list" subcommand.
func (c *CLI) netListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in nets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range netNames() {
				n, err := net.Builtin(name)
				if err != nil {
					return err
				}
				printKeyValue(name, fmt.Sprintf("%d faces", len(n.Faces)))
			}
			return nil
		},
	}
}

// netGraphCommand creates the "net graph" subcommand, which draws the face
// adjacency graph of a net with the fold tree highlighted.
func (c *CLI) netGraphCommand() *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "graph [net]",
		Short: "Write the face graph of a net as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNetGraph(cmd.Context(), args[0], format, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot (default), svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <net>.<format>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runNetGraph(ctx context.Context, name, format, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	data, err := runner.RenderNet(ctx, name, format)
	if err != nil {
		return err
	}
	prog.done("Rendered " + name + " face graph")

	if output == "" {
		output = name + "." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Net graph complete")
	printFile(output)
	return nil
}
