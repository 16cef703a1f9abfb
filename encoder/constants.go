package encoder

// Condition codes recognised by conditional branches and the conditional
// select family. The subset uses the standard AArch64 numbering; only eq,
// ne, ge, lt, gt, le and al are recognised.
const (
	CondEQ = 0x0
	CondNE = 0x1
	CondGE = 0xA
	CondLT = 0xB
	CondGT = 0xC
	CondLE = 0xD
	CondAL = 0xE
)

// Fixed instruction patterns shared with the emulator
const (
	// Branch family
	BranchUncondBase = 0x14000000
	BranchRegBase    = 0xD61F0000
	BranchCondBase   = 0x54000000

	// Conditional select family
	CselBase  = 0x1A800000
	CsincBase = 0x1A800400
	CsinvBase = 0x5A800000
	CsnegBase = 0x5A800400
	CsetBase  = 0x1A9F07E0
	CsetmBase = 0x5A9F03E0

	// Scalar floating point
	FPBase = 0x1E200000
)

// Two-source FP operation selectors (instruction bits 15-10)
const (
	fpOpMul  = 2
	fpOpDiv  = 6
	fpOpAdd  = 10
	fpOpSub  = 14
	fpOpMax  = 18
	fpOpMin  = 22
	fpOpCmp  = 8
	fpOpNmul = 34
)

// One-source FP opcode field (instruction bits 16-14)
const (
	fpOpcMov = 1
	fpOpcAbs = 3
	fpOpcNeg = 5
)

// GPR transfer selectors within the one-source FP space
const (
	fpMovToInt   = 6  // fmov Rd, Vn (bits 18-16)
	fpMovFromInt = 7  // fmov Vd, Rn (bits 18-16)
	fpCvtToInt   = 24 // fcvtzs (bits 20-16)
	fpCvtFromInt = 2  // scvtf (bits 20-16)
)
