package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
	"github.com/laidout/impose/pkg/signature"
)

const (
	convertTOML = "toml"
	convertAttr = "attr"
)

// foldCommand creates the fold command, which prints a signature's fold grid.
func (c *CLI) foldCommand() *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "fold [signature]",
		Short: "Show how a signature folds",
		Long: `Show how a signature folds.

The argument is a signature file or a built-in name (` + strings.Join(signature.BuiltinNames(), ", ") + `).
Without --level the fully folded result is shown: the page printed in every
cell of both sides of the first sheet, with ` + iconUpsideDown + ` marking upside down pages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := resolveSignature(args[0])
			if err != nil {
				return err
			}
			plan, err := sig.Plan()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("level") {
				level = len(plan.Folds)
			}
			if level < 0 || level > len(plan.Folds) {
				return errors.New(errors.ErrCodeOutOfRange, "level %d out of range [0,%d]", level, len(plan.Folds))
			}
			return showFolds(&sig, plan, level)
		},
	}

	cmd.Flags().IntVar(&level, "level", 0, "number of folds to apply (default: all)")

	return cmd
}

func showFolds(sig *signature.Signature, plan *fold.Plan, level int) error {
	printSignature(sig, plan)
	printNewline()

	g, err := plan.AtLevel(level)
	if err != nil {
		return err
	}
	if level < len(plan.Folds) {
		printInfo("After %d of %d folds", level, len(plan.Folds))
		fmt.Println(stackTable(g))
		return nil
	}
	if err := plan.Err(); err != nil {
		fmt.Println(stackTable(g))
		return err
	}
	fmt.Println(sheetTables(sig, plan))
	return nil
}

// printSignature prints the fields of sig that matter for folding.
func printSignature(sig *signature.Signature, plan *fold.Plan) {
	name := sig.Name
	if name == "" {
		name = "(unnamed)"
	}
	folds := make([]string, len(plan.Folds))
	for i, f := range plan.Folds {
		folds[i] = f.String()
	}
	if len(folds) == 0 {
		folds = append(folds, "none")
	}

	printKeyValue("Name", name)
	printKeyValue("Paper", fmt.Sprintf("%g x %g", sig.PaperWidth, sig.PaperHeight))
	printKeyValue("Folds", strings.Join(folds, ", "))
	printKeyValue("Grid", fmt.Sprintf("%d rows x %d columns", plan.Rows(), plan.Cols()))
	printKeyValue("Page", fmt.Sprintf("%.4g x %.4g", sig.PageWidth(), sig.PageHeight()))
	printKeyValue("Sheets", fmt.Sprintf("%d per signature", sig.SheetsPerSignature))
	printKeyValue("Pages", fmt.Sprintf("%d per signature", sig.PagesPerSignature()))
	printKeyValue("Status", plan.Status.String())
}

// previewCommand creates the preview command, an interactive fold stepper.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [signature]",
		Short: "Step through the folds of a signature interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := resolveSignature(args[0])
			if err != nil {
				return err
			}
			plan, err := sig.Plan()
			if err != nil {
				return err
			}
			model := NewFoldPreviewModel(sig, plan)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// validateCommand creates the validate command for signature files.
func (c *CLI) validateCommand() *cobra.Command {
	var convert string

	cmd := &cobra.Command{
		Use:   "validate [signature...]",
		Short: "Check signature files and optionally convert them",
		Long: `Check signature files and optionally convert them.

Each argument is loaded and checked: fold counts, geometry, and whether the
folds reduce the sheet to a single stack. With --convert the signature is
written to stdout as TOML or in the attribute format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if convert != "" && convert != convertTOML && convert != convertAttr {
				return errors.New(errors.ErrCodeUnsupported, "invalid conversion %q (must be 'toml' or 'attr')", convert)
			}
			if convert != "" && len(args) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--convert takes exactly one signature")
			}

			failed := 0
			for _, arg := range args {
				sig, err := validateSignature(arg)
				if err != nil {
					failed++
					printError("%s: %s", arg, errors.UserMessage(err))
					continue
				}
				if convert != "" {
					return writeSignature(sig, convert)
				}
				printSuccess("%s: %d pages per signature", arg, sig.PagesPerSignature())
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%d of %d signatures invalid", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&convert, "convert", "", "write the signature to stdout: toml, attr")

	return cmd
}

func validateSignature(arg string) (signature.Signature, error) {
	sig, err := resolveSignature(arg)
	if err != nil {
		return sig, err
	}
	return sig, sig.Validity()
}

func writeSignature(sig signature.Signature, format string) error {
	if format == convertAttr {
		return signature.Dump(os.Stdout, sig)
	}
	data, err := signature.EncodeTOML(sig)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
