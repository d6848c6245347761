// Package format houses the low-level record layouts of the API set namespace
// schema (version 6). Decoders and encoders here work on explicit byte
// windows and know nothing about the in-memory schema model, so the public
// codec can orchestrate them in whatever order a layout requires.
//
// All integers are little-endian. All offsets are absolute from the start of
// the schema blob and all lengths are UTF-16LE byte counts.
package format

const (
	// SchemaVersion is the only namespace schema version this codec handles.
	SchemaVersion = 6

	// DefaultHashFactor is the multiplier written by the upstream tool when a
	// schema does not specify one.
	DefaultHashFactor = 31

	// VersionSuffixSeparator separates a namespace name from its version suffix.
	VersionSuffixSeparator = '-'
)

// Header layout (28 bytes).
//
//	Offset  Size  Description
//	------  ----  -------------------------------------------
//	 0x00    4    Version (i32, must be 6)
//	 0x04    4    Total size of the schema in bytes (i32)
//	 0x08    4    Flags (u32): 0x1 sealed, 0x2 host extension
//	 0x0C    4    Namespace count (i32)
//	 0x10    4    Namespace table offset (i32)
//	 0x14    4    Hash table offset (i32)
//	 0x18    4    Hash factor (i32)
const (
	HeaderSize = 0x1C

	HdrVersionOffset    = 0x00
	HdrSizeOffset       = 0x04
	HdrFlagsOffset      = 0x08
	HdrCountOffset      = 0x0C
	HdrEntryOffset      = 0x10
	HdrHashOffset       = 0x14
	HdrHashFactorOffset = 0x18
)

// Namespace row layout (24 bytes).
//
//	Offset  Size  Description
//	------  ----  -------------------------------------------
//	 0x00    4    Flags (u32): 0x1 sealed, 0x2 extension
//	 0x04    4    Name offset (i32)
//	 0x08    4    Name length in bytes (i32)
//	 0x0C    4    Hashed name length in bytes (i32)
//	 0x10    4    Value table offset (i32)
//	 0x14    4    Value count (i32)
const (
	NamespaceRecordSize = 0x18

	NSFlagsOffset        = 0x00
	NSNameOffsetOffset   = 0x04
	NSNameLengthOffset   = 0x08
	NSHashedLengthOffset = 0x0C
	NSValueOffsetOffset  = 0x10
	NSValueCountOffset   = 0x14
)

// Value row layout (20 bytes).
//
//	Offset  Size  Description
//	------  ----  -------------------------------------------
//	 0x00    4    Flags (u32, reserved)
//	 0x04    4    Qualifier name offset (i32)
//	 0x08    4    Qualifier name length in bytes (i32)
//	 0x0C    4    Target offset (i32)
//	 0x10    4    Target length in bytes (i32)
const (
	ValueRecordSize = 0x14

	VFlagsOffset       = 0x00
	VNameOffsetOffset  = 0x04
	VNameLengthOffset  = 0x08
	VValueOffsetOffset = 0x0C
	VValueLengthOffset = 0x10
)

// Hash bucket layout (8 bytes).
//
//	Offset  Size  Description
//	------  ----  -------------------------------------------
//	 0x00    4    Hash of the namespace's hashed name (u32)
//	 0x04    4    Index into the namespace table (i32)
const (
	HashBucketSize = 0x08

	HBHashOffset  = 0x00
	HBIndexOffset = 0x04
)

const (
	// StringAlignment is the alignment of strings in the authentic layout and
	// of the hash table in both layouts.
	StringAlignment = 4

	// StringAlignmentMask is StringAlignment - 1.
	StringAlignmentMask = StringAlignment - 1

	// BlockPadMask reproduces the padding quirk of the upstream build tool,
	// which rounds output with a 4093 mask instead of 4095.
	BlockPadMask = 4093
)
