package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dhrdlicka/apisettool/internal/writer"
	"github.com/dhrdlicka/apisettool/pkg/apiset"
	"github.com/dhrdlicka/apisettool/pkg/apisetjson"
)

var (
	buildOutput string
	buildFormat = apiset.FormatSequential
)

func init() {
	rootCmd.AddCommand(newBuildCmd())
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <json>",
		Short: "Generate an API set section from a JSON dump",
		Long: `The build command encodes a JSON schema dump into the binary layout
stored in the .apiset section. Output is padded the way the upstream
tool pads it.

Example:
  apisetctl build apiset.json
  apisetctl build apiset.json -o apiset.bin -f authentic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args)
		},
	}
	cmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output file (default <json>.apiset)")
	cmd.Flags().VarP(&buildFormat, "format", "f", "Layout: sequential or authentic")
	return cmd
}

func runBuild(args []string) error {
	input := args[0]
	output := buildOutput
	if output == "" {
		output = input + ".apiset"
	}

	printVerbose("Reading %s\n", input)
	doc, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	s, err := apisetjson.Unmarshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	blob, err := apiset.Encode(s, buildFormat)
	if err != nil {
		return fmt.Errorf("encode %s: %w", input, err)
	}

	sink := writer.Padded{Sink: &writer.FileWriter{Path: output}, Pad: apiset.PadLength}
	if err := sink.WriteOutput(blob); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Debug("built schema",
		zap.String("output", output),
		zap.Stringer("format", buildFormat),
		zap.Int("size", len(blob)),
		zap.Int("padded", apiset.PadLength(len(blob))),
	)
	printInfo("Wrote %d namespaces to %s (%s layout)\n", s.Namespaces.Len(), output, buildFormat)
	return nil
}
