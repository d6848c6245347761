package format

// Align4 returns n aligned up to the next 4-byte boundary.
//
//	Align4(0) = 0
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + StringAlignmentMask) &^ StringAlignmentMask
}

// PadBlock returns the length the upstream tool extends its output to.
// The result is never smaller than n.
//
//	PadBlock(1)    = 2
//	PadBlock(3)    = 4096
//	PadBlock(4098) = 4098
//	PadBlock(4099) = 8192
func PadBlock(n int) int {
	return (n + BlockPadMask) &^ BlockPadMask
}
