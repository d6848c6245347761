/*
Package apiset decodes and encodes the Windows API set namespace schema
(version 6), the index stored in the .apiset section of apisetschema.dll that
redirects virtual library names such as api-ms-win-core-file-l1-1-0 to real
DLLs.

# Quick Start

Decode a schema blob, look up a namespace and re-encode it:

	s, err := apiset.Decode(blob)
	if err != nil {
	    return err
	}
	if e, ok := s.Lookup("api-ms-win-core-file-l1-1-0"); ok {
	    fmt.Println(e.Default.Value) // kernel32.dll
	}
	out, err := apiset.Encode(s, apiset.FormatAuthentic)

# Layouts

Both layouts share the header and row shapes and decode to the same schema.

  - FormatSequential: header, namespace rows, value rows, strings, hash table.
  - FormatAuthentic: each namespace's name and strings follow its own value
    table, 4-byte aligned, as the operating system's tool writes them.

Placement of strings depends on the iteration order of Schema.Namespaces,
which is insertion order.

# Errors

Failures are *Error values. Compare them with errors.Is against the
sentinels:

	if errors.Is(err, apiset.ErrUnsupportedVersion) {
	    // not a version 6 schema
	}
*/
package apiset
