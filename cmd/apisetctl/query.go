package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newQueryCmd())
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <file> <api>",
		Short: "Query API set data",
		Long: `The query command prints where an API set resolves: the default target
followed by every host-specific override that redirects somewhere.

Example:
  apisetctl query apisetschema.dll api-ms-win-core-file-l1-1-0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(args)
		},
	}
	return cmd
}

func runQuery(args []string) error {
	input, api := args[0], args[1]

	l, err := loadSchema(input)
	if err != nil {
		return err
	}

	e, ok := l.Schema.Lookup(api)
	if !ok {
		printInfo("%s: not found\n\n", api)
		return nil
	}
	printInfo("%s => %s\n", api, e.Default.Value)
	for name, v := range e.Values.All() {
		if v.IsEmpty() {
			continue
		}
		printInfo("  %s => %s\n", name, v.Value)
	}
	printInfo("\n")
	return nil
}
