package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Report schema header fields and a content digest",
		Long: `The info command decodes a schema and prints its header, where it was
found and an xxhash64 digest of the schema bytes.

Example:
  apisetctl info apisetschema.dll
  apisetctl info apiset.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type schemaInfo struct {
	File        string `json:"file"`
	Origin      string `json:"origin"`
	Size        int32  `json:"size"`
	BlobSize    int    `json:"blob_size"`
	Version     int32  `json:"version"`
	Flags       uint32 `json:"flags"`
	Namespaces  int32  `json:"namespaces"`
	EntryOffset int32  `json:"entry_offset"`
	HashOffset  int32  `json:"hash_offset"`
	HashFactor  int32  `json:"hash_factor"`
	Enabled     int    `json:"enabled"`
	Digest      string `json:"xxhash64"`
}

func runInfo(args []string) error {
	input := args[0]

	l, err := loadSchema(input)
	if err != nil {
		return err
	}

	info := schemaInfo{
		File:        input,
		Origin:      l.Origin,
		Size:        l.Header.Size,
		BlobSize:    l.Size,
		Version:     l.Header.Version,
		Flags:       l.Header.Flags,
		Namespaces:  l.Header.Count,
		EntryOffset: l.Header.EntryOffset,
		HashOffset:  l.Header.HashOffset,
		HashFactor:  l.Header.HashFactor,
		Digest:      fmt.Sprintf("%016x", l.Digest),
	}
	for _, e := range l.Schema.Namespaces.All() {
		if e.Enabled() {
			info.Enabled++
		}
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nSchema Information:\n")
	printInfo("  File: %s\n", info.File)
	printInfo("  Origin: %s\n", info.Origin)
	printInfo("  Size: %d bytes (%d read)\n", info.Size, info.BlobSize)
	printInfo("  Version: %d\n", info.Version)
	printInfo("  Flags: 0x%x\n", info.Flags)
	printInfo("  Namespaces: %d (%d enabled)\n", info.Namespaces, info.Enabled)
	printInfo("  Entry offset: 0x%x\n", info.EntryOffset)
	printInfo("  Hash offset: 0x%x\n", info.HashOffset)
	printInfo("  Hash factor: %d\n", info.HashFactor)
	printInfo("  xxhash64: %s\n", info.Digest)
	return nil
}
