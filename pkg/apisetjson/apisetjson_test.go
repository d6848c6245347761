package apisetjson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhrdlicka/apisettool/pkg/apiset"
)

const sampleDoc = `{
  "version": 6,
  "sealed": true,
  "hashFactor": 31,
  "entries": {
    "api-ms-win-core-file-l1-1-0": "kernel32.dll",
    "api-ms-win-legacy-l1-1-0": null,
    "ext-ms-win-ntuser-window-l1-1-4": {
      "extension": true,
      "flags": 4,
      "value": "user32.dll",
      "others": {
        "host.exe": null,
        "shell32.dll": {
          "flags": 2,
          "value": "user32.dll"
        }
      }
    },
    "api-ms-win-core-heap-l1-2-0": {
      "flags": 1,
      "value": null
    }
  }
}`

func TestUnmarshal(t *testing.T) {
	s, err := Unmarshal([]byte(sampleDoc))
	require.NoError(t, err)

	require.Equal(t, int32(6), s.Version)
	require.Equal(t, apiset.SchemaSealed, s.Flags)
	require.Equal(t, int32(31), s.HashFactor)
	require.Equal(t, []string{
		"api-ms-win-core-file-l1-1-0",
		"api-ms-win-legacy-l1-1-0",
		"ext-ms-win-ntuser-window-l1-1-4",
		"api-ms-win-core-heap-l1-2-0",
	}, s.Namespaces.Keys())

	file, _ := s.Lookup("api-ms-win-core-file-l1-1-0")
	require.Equal(t, apiset.ValueEntry{Value: "kernel32.dll"}, file.Default)
	require.Zero(t, file.Flags)

	legacy, _ := s.Lookup("api-ms-win-legacy-l1-1-0")
	require.False(t, legacy.Enabled())

	ext, _ := s.Lookup("EXT-MS-WIN-NTUSER-WINDOW-L1-1-4")
	require.Equal(t, apiset.NamespaceExtension|apiset.NamespaceFlags(4), ext.Flags)
	require.Equal(t, "user32.dll", ext.Default.Value)
	require.Equal(t, []string{"host.exe", "shell32.dll"}, ext.Values.Keys())
	v, _ := ext.Values.Get("shell32.dll")
	require.Equal(t, apiset.ValueEntry{Flags: 2, Value: "user32.dll"}, v)
	v, _ = ext.Values.Get("host.exe")
	require.True(t, v.IsEmpty())

	heap, _ := s.Lookup("api-ms-win-core-heap-l1-2-0")
	require.Equal(t, apiset.NamespaceSealed, heap.Flags)
}

func TestMarshal_RoundTrip(t *testing.T) {
	s, err := Unmarshal([]byte(sampleDoc))
	require.NoError(t, err)

	out, err := Marshal(s)
	require.NoError(t, err)

	again, err := Unmarshal(out)
	require.NoError(t, err)
	require.True(t, s.Equal(again))
	require.Equal(t, s.Namespaces.Keys(), again.Namespaces.Keys())
}

func TestMarshal_Shorthands(t *testing.T) {
	s := apiset.NewSchema()
	s.Flags = apiset.SchemaHostExtension | 0x8
	s.Namespaces.Add("api-ms-win-a-l1-1-0", &apiset.NamespaceEntry{Default: apiset.ValueEntry{Value: "a.dll"}})
	s.Namespaces.Add("api-ms-win-b-l1-1-0", &apiset.NamespaceEntry{})
	s.Namespaces.Add("api-ms-win-c-l1-1-0", &apiset.NamespaceEntry{Default: apiset.ValueEntry{Flags: 1, Value: "c.dll"}})
	sealed := &apiset.NamespaceEntry{Flags: apiset.NamespaceSealed, Default: apiset.ValueEntry{Value: "d.dll"}}
	sealed.Values.Add("host.exe", apiset.ValueEntry{Value: ""})
	s.Namespaces.Add("api-ms-win-d-l1-1-0", sealed)

	out, err := Marshal(s)
	require.NoError(t, err)
	require.Equal(t, `{
  "version": 6,
  "hostExtension": true,
  "flags": 8,
  "hashFactor": 31,
  "entries": {
    "api-ms-win-a-l1-1-0": "a.dll",
    "api-ms-win-b-l1-1-0": null,
    "api-ms-win-c-l1-1-0": {
      "value": {
        "flags": 1,
        "value": "c.dll"
      }
    },
    "api-ms-win-d-l1-1-0": {
      "sealed": true,
      "value": "d.dll",
      "others": {
        "host.exe": null
      }
    }
  }
}`, string(out))

	again, err := Unmarshal(out)
	require.NoError(t, err)
	require.True(t, s.Equal(again))
}

func TestUnmarshal_Defaults(t *testing.T) {
	s, err := Unmarshal([]byte(`{"Version": 6, "ENTRIES": {}, "comment": [1, {"x": 2}]}`))
	require.NoError(t, err)
	require.Equal(t, int32(31), s.HashFactor)
	require.Zero(t, s.Namespaces.Len())
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"not an object", `[]`, ErrInvalidDocument},
		{"missing version", `{"entries": {}}`, ErrInvalidDocument},
		{"missing entries", `{"version": 6}`, ErrInvalidDocument},
		{"version not a number", `{"version": "6", "entries": {}}`, ErrInvalidDocument},
		{"negative flags", `{"version": 6, "flags": -1, "entries": {}}`, ErrInvalidDocument},
		{"sealed not a bool", `{"version": 6, "sealed": 1, "entries": {}}`, ErrInvalidDocument},
		{"namespace without value", `{"version": 6, "entries": {"api-a-l1-1-0": {"sealed": true}}}`, ErrInvalidDocument},
		{"value object without value", `{"version": 6, "entries": {"api-a-l1-1-0": {"value": {"flags": 1}}}}`, ErrInvalidDocument},
		{"value is a number", `{"version": 6, "entries": {"api-a-l1-1-0": 5}}`, ErrInvalidDocument},
		{"trailing data", `{"version": 6, "entries": {}} {}`, ErrInvalidDocument},
		{"duplicate namespace", `{"version": 6, "entries": {"api-a-l1-1-0": "a.dll", "API-A-L1-1-0": "b.dll"}}`, apiset.ErrDuplicateNamespace},
		{"empty qualifier name", `{"version": 6, "entries": {"api-a-l1-1-0": {"value": "a.dll", "others": {"": "b.dll"}}}}`, apiset.ErrDuplicateDefault},
		{"duplicate qualifier", `{"version": 6, "entries": {"api-a-l1-1-0": {"value": "a.dll", "others": {"x.exe": "b.dll", "X.EXE": "c.dll"}}}}`, apiset.ErrDuplicateQualifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			require.ErrorIs(t, err, tt.is)
		})
	}

	_, err := Unmarshal([]byte(`{"version": 6,`))
	require.Error(t, err)
}

func TestMarshal_EncodesToBinary(t *testing.T) {
	s, err := Unmarshal([]byte(sampleDoc))
	require.NoError(t, err)

	blob, err := apiset.Encode(s, apiset.FormatAuthentic)
	require.NoError(t, err)
	decoded, err := apiset.Decode(blob)
	require.NoError(t, err)

	out, err := Marshal(decoded)
	require.NoError(t, err)
	want, err := Marshal(s)
	require.NoError(t, err)
	require.Equal(t, string(want), string(out))
}
