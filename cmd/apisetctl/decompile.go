package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhrdlicka/apisettool/internal/writer"
	"github.com/dhrdlicka/apisettool/pkg/apisetjson"
)

var decompileOutput string

func init() {
	rootCmd.AddCommand(newDecompileCmd())
}

func newDecompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompile <file>",
		Short: "Decompile an API set section into JSON",
		Long: `The decompile command reads apisetschema.dll or an extracted .apiset
section and writes its schema as JSON.

Example:
  apisetctl decompile apisetschema.dll
  apisetctl decompile apiset.bin -o apiset.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompile(args)
		},
	}
	cmd.Flags().StringVarP(&decompileOutput, "output", "o", "", "Output file (default <file>.json in the current directory)")
	return cmd
}

func runDecompile(args []string) error {
	input := args[0]
	output := decompileOutput
	if output == "" {
		output = filepath.Base(input) + ".json"
	}

	l, err := loadSchema(input)
	if err != nil {
		return err
	}
	doc, err := apisetjson.Marshal(l.Schema)
	if err != nil {
		return err
	}
	doc = append(doc, '\n')

	w := &writer.FileWriter{Path: output}
	if err := w.WriteOutput(doc); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printInfo("Wrote %d namespaces to %s\n", l.Schema.Namespaces.Len(), output)
	return nil
}
