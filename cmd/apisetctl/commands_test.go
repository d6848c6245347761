package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhrdlicka/apisettool/pkg/apiset"
	"github.com/dhrdlicka/apisettool/pkg/apisetjson"
)

// buildSample builds sampleDoc into a section file and returns its path.
func buildSample(t *testing.T, layout string) string {
	t.Helper()
	resetFlags(t)
	src := writeTemp(t, "apiset.json", []byte(sampleDoc))
	buildOutput = filepath.Join(filepath.Dir(src), "apiset.bin")
	require.NoError(t, buildFormat.Set(layout))

	output, err := captureOutput(t, func() error {
		return runBuild([]string{src})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Wrote 3 namespaces", layout})
	return buildOutput
}

func TestBuildCommand(t *testing.T) {
	for _, layout := range []string{"sequential", "authentic"} {
		t.Run(layout, func(t *testing.T) {
			out := buildSample(t, layout)

			blob, err := os.ReadFile(out)
			require.NoError(t, err)
			require.Zero(t, len(blob)%4096)

			s, err := apiset.Decode(blob)
			require.NoError(t, err)
			want, err := apisetjson.Unmarshal([]byte(sampleDoc))
			require.NoError(t, err)
			require.True(t, want.Equal(s))
		})
	}
}

func TestBuildCommand_DefaultOutput(t *testing.T) {
	resetFlags(t)
	src := writeTemp(t, "apiset.json", []byte(sampleDoc))

	_, err := captureOutput(t, func() error {
		return runBuild([]string{src})
	})
	require.NoError(t, err)
	require.FileExists(t, src+".apiset")
}

func TestBuildCommand_Errors(t *testing.T) {
	resetFlags(t)

	_, err := captureOutput(t, func() error {
		return runBuild([]string{filepath.Join(t.TempDir(), "missing.json")})
	})
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := writeTemp(t, "bad.json", []byte(`{"version": 6}`))
	_, err = captureOutput(t, func() error {
		return runBuild([]string{bad})
	})
	require.ErrorIs(t, err, apisetjson.ErrInvalidDocument)

	v5 := writeTemp(t, "v5.json", []byte(`{"version": 5, "entries": {}}`))
	_, err = captureOutput(t, func() error {
		return runBuild([]string{v5})
	})
	require.ErrorIs(t, err, apiset.ErrUnsupportedVersion)
}

func TestDecompileCommand(t *testing.T) {
	bin := buildSample(t, "authentic")
	t.Chdir(t.TempDir())

	output, err := captureOutput(t, func() error {
		return runDecompile([]string{bin})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Wrote 3 namespaces to apiset.bin.json"})

	doc, err := os.ReadFile("apiset.bin.json")
	require.NoError(t, err)
	require.Equal(t, byte('\n'), doc[len(doc)-1])

	got, err := apisetjson.Unmarshal(doc)
	require.NoError(t, err)
	want, err := apisetjson.Unmarshal([]byte(sampleDoc))
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestDecompileCommand_FromImage(t *testing.T) {
	resetFlags(t)
	s, err := apisetjson.Unmarshal([]byte(sampleDoc))
	require.NoError(t, err)
	blob, err := apiset.Encode(s, apiset.FormatSequential)
	require.NoError(t, err)

	dll := writeTemp(t, "apisetschema.dll", peWrap(blob))
	decompileOutput = filepath.Join(t.TempDir(), "out.json")

	_, err = captureOutput(t, func() error {
		return runDecompile([]string{dll})
	})
	require.NoError(t, err)

	doc, err := os.ReadFile(decompileOutput)
	require.NoError(t, err)
	got, err := apisetjson.Unmarshal(doc)
	require.NoError(t, err)
	require.True(t, s.Equal(got))
}

func TestQueryCommand(t *testing.T) {
	bin := buildSample(t, "sequential")

	tests := []struct {
		name string
		api  string
		want string
	}{
		{
			name: "with overrides",
			api:  "api-ms-win-core-file-l1-1-0",
			want: "api-ms-win-core-file-l1-1-0 => kernel32.dll\n  kernel32.dll => kernelbase.dll\n\n",
		},
		{
			name: "case insensitive",
			api:  "API-MS-WIN-CORE-HEAP-L1-2-0",
			want: "API-MS-WIN-CORE-HEAP-L1-2-0 => kernelbase.dll\n\n",
		},
		{
			name: "disabled",
			api:  "api-ms-win-legacy-l1-1-0",
			want: "api-ms-win-legacy-l1-1-0 => \n\n",
		},
		{
			name: "missing",
			api:  "api-ms-win-nope-l1-1-0",
			want: "api-ms-win-nope-l1-1-0: not found\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := captureOutput(t, func() error {
				return runQuery([]string{bin, tt.api})
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, output)
		})
	}
}

func TestInfoCommand(t *testing.T) {
	bin := buildSample(t, "authentic")

	output, err := captureOutput(t, func() error {
		return runInfo([]string{bin})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{
		"Origin: raw schema blob",
		"Version: 6",
		"Flags: 0x1",
		"Namespaces: 3 (2 enabled)",
		"Hash factor: 31",
		"xxhash64: ",
	})

	jsonOut = true
	output, err = captureOutput(t, func() error {
		return runInfo([]string{bin})
	})
	require.NoError(t, err)

	var info schemaInfo
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	require.Equal(t, int32(6), info.Version)
	require.Equal(t, int32(3), info.Namespaces)
	require.Equal(t, 2, info.Enabled)
	require.Equal(t, int32(28), info.EntryOffset)
	require.Len(t, info.Digest, 16)
}

func TestInfoCommand_DigestIgnoresPadding(t *testing.T) {
	resetFlags(t)
	s, err := apisetjson.Unmarshal([]byte(sampleDoc))
	require.NoError(t, err)
	blob, err := apiset.Encode(s, apiset.FormatSequential)
	require.NoError(t, err)

	raw := writeTemp(t, "raw.bin", blob)
	padded := writeTemp(t, "padded.bin", append(blob, make([]byte, 100)...))
	dll := writeTemp(t, "apisetschema.dll", peWrap(blob))

	digests := map[string]string{}
	for _, path := range []string{raw, padded, dll} {
		jsonOut = true
		output, err := captureOutput(t, func() error {
			return runInfo([]string{path})
		})
		require.NoError(t, err)
		var info schemaInfo
		require.NoError(t, json.Unmarshal([]byte(output), &info))
		digests[info.Origin+" "+filepath.Base(path)] = info.Digest
	}
	require.Len(t, digests, 3)
	var first string
	for _, d := range digests {
		if first == "" {
			first = d
		}
		require.Equal(t, first, d)
	}
	require.Contains(t, digests, "PE image section .apiset apisetschema.dll")
}

func TestLoadSchema_NeitherForm(t *testing.T) {
	resetFlags(t)
	junk := writeTemp(t, "junk.bin", []byte("this is not a schema"))

	_, err := loadSchema(junk)
	require.Error(t, err)
	assertContains(t, err.Error(), []string{
		"is not an API set schema",
		"as raw schema blob",
		"as PE image section .apiset",
	})

	broken := writeTemp(t, "broken.dll", peWrap([]byte{5, 0, 0, 0}))
	_, err = loadSchema(broken)
	require.ErrorIs(t, err, apiset.ErrUnsupportedVersion)
}

func TestRootCommand_ReportsErrorsOnce(t *testing.T) {
	resetFlags(t)
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"query", filepath.Join(t.TempDir(), "missing.bin"), "api-ms-win-core-file-l1-1-0"})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	_, err := captureOutput(t, rootCmd.Execute)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Empty(t, stderr.String(), "the error is left to execute to print")
}
