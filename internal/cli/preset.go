package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/laidout/impose/pkg/pipeline"
	"github.com/laidout/impose/pkg/store"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	var mongoURI string

	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved dispositions",
		Long: `Manage saved dispositions.

Presets live in ~/.config/impose/presets, or in MongoDB when --mongo-uri
(or ` + envMongoURI + `) is set. Use them with "impose render --preset NAME".`,
	}

	cmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", envOr(envMongoURI, ""), "MongoDB URI (default: local preset directory)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE:  withStore(&mongoURI, runPresetList),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get [name]",
		Short: "Print a preset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  withStore(&mongoURI, runPresetGet),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  withStore(&mongoURI, runPresetDelete),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Save the built-in signatures and nets as presets",
		Args:  cobra.NoArgs,
		RunE:  withStore(&mongoURI, runPresetSeed),
	})
	cmd.AddCommand(c.presetPutCommand(&mongoURI))

	return cmd
}

// storeFunc is a preset subcommand body run against an open store.
type storeFunc func(ctx context.Context, st store.Store, args []string) error

// withStore opens the store named by uri around run.
func withStore(uri *string, run storeFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), *uri)
		if err != nil {
			return err
		}
		defer st.Close()
		return run(cmd.Context(), st, args)
	}
}

func (c *CLI) presetPutCommand(mongoURI *string) *cobra.Command {
	var (
		src         sourceFlags
		description string
	)

	cmd := &cobra.Command{
		Use:   "put [name]",
		Short: "Save a disposition under a name",
		Example: `  impose preset put my-octavo --signature octavo.toml --creep 0.02
  impose preset put cube --net cube`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src.mongoURI = *mongoURI
			var opts pipeline.Options
			if err := src.resolve(cmd.Context(), cmd, &opts); err != nil {
				return err
			}
			return withStore(mongoURI, func(ctx context.Context, st store.Store, args []string) error {
				p := &store.Preset{Name: args[0], Description: description, Kind: opts.Kind, Options: opts.Options}
				if err := st.Put(ctx, p); err != nil {
					return err
				}
				printSuccess("Saved preset %s", StyleHighlight.Render(p.Name))
				printDetail("%s · id %s", p.Kind, p.ID)
				return nil
			})(cmd, args)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&description, "description", "d", "", "preset description")

	return cmd
}

func runPresetList(ctx context.Context, st store.Store, _ []string) error {
	presets, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		printInfo("No presets saved")
		printNextStep("Add the built-ins", "impose preset seed")
		return nil
	}
	for _, p := range presets {
		line := p.Kind
		if p.Description != "" {
			line += StyleDim.Render("  " + p.Description)
		}
		printKeyValue(p.Name, line)
	}
	return nil
}

func runPresetGet(ctx context.Context, st store.Store, args []string) error {
	p, err := st.Get(ctx, args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func runPresetDelete(ctx context.Context, st store.Store, args []string) error {
	if err := st.Delete(ctx, args[0]); err != nil {
		return err
	}
	printSuccess("Deleted preset %s", args[0])
	return nil
}

func runPresetSeed(ctx context.Context, st store.Store, _ []string) error {
	n, err := store.Seed(ctx, st)
	if err != nil {
		return err
	}
	printSuccess("Added %d built-in presets", n)
	return nil
}
