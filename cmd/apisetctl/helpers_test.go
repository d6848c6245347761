package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "version": 6,
  "sealed": true,
  "entries": {
    "api-ms-win-core-file-l1-1-0": {
      "value": "kernel32.dll",
      "others": {
        "kernel32.dll": "kernelbase.dll",
        "host.exe": null
      }
    },
    "api-ms-win-core-heap-l1-2-0": "kernelbase.dll",
    "api-ms-win-legacy-l1-1-0": null
  }
}`

// resetFlags restores every command flag to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	quiet = false
	verbose = false
	jsonOut = false
	buildOutput = ""
	decompileOutput = ""
	require.NoError(t, buildFormat.Set("sequential"))
}

// writeTemp writes data to name inside a fresh temp directory.
func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// peWrap places section as the .apiset section of a minimal PE32+ image.
func peWrap(section []byte) []byte {
	const (
		lfanew  = 0x40
		optSize = 240
	)
	le := binary.LittleEndian
	headers := lfanew + 4 + 20 + optSize + 40
	img := make([]byte, headers+len(section))

	le.PutUint16(img[0:], 0x5A4D)
	le.PutUint32(img[0x3C:], lfanew)
	copy(img[lfanew:], "PE\x00\x00")

	fh := img[lfanew+4:]
	le.PutUint16(fh[0:], 0x8664)
	le.PutUint16(fh[2:], 1)
	le.PutUint16(fh[16:], optSize)
	le.PutUint16(fh[18:], 0x2022)

	opt := fh[20:]
	le.PutUint16(opt[0:], 0x20b)
	le.PutUint32(opt[108:], 16)

	sh := opt[optSize:]
	copy(sh, ".apiset")
	le.PutUint32(sh[8:], uint32(len(section)))
	le.PutUint32(sh[12:], 0x1000)
	le.PutUint32(sh[16:], uint32(len(section)))
	le.PutUint32(sh[20:], uint32(headers))
	le.PutUint32(sh[36:], 0x40000040)

	copy(img[headers:], section)
	return img
}
