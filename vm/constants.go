package vm

// Machine dimensions
const (
	MaxMemory   = 2 * 1024 * 1024 // 2 MiB byte-addressable memory
	GeneralRegs = 31              // X0-X30; slot 31 is the zero register
	FPRegCount  = 32
	InstrSize   = 4
)

// HaltWord terminates emulation before dispatch. It is the encoding of
// "and x0, x0, x0".
const HaltWord = 0x8A000000

// op0 family selector values (instruction bits 28-25)
const (
	op0DPImm1     = 0x8
	op0DPImm2     = 0x9
	op0DPReg1     = 0x5
	op0DPReg2     = 0xD
	op0LoadStore1 = 0x4
	op0LoadStore2 = 0x6
	op0LoadStore3 = 0xC
	op0LoadStore4 = 0xE
	op0Branch1    = 0xA
	op0Branch2    = 0xB
	op0Float1     = 0x7
	op0Float2     = 0xF
)

// Condition codes
const (
	CondEQ = 0x0
	CondNE = 0x1
	CondGE = 0xA
	CondLT = 0xB
	CondGT = 0xC
	CondLE = 0xD
	CondAL = 0xE
)

// Branch form masks
const (
	branchUncondMask     = 0xFC000000
	branchUncondExpected = 0x14000000
	branchRegMask        = 0xFFFFFC1F
	branchRegExpected    = 0xD61F0000
	branchCondMask       = 0xFF000010
	branchCondExpected   = 0x54000000
)

// Single data transfer form masks
const (
	sdtMask          = 0xBE800000
	sdtExpected      = 0xB8000000
	sdtLiteralMask   = 0xBF000000
	sdtLiteralExpect = 0x18000000
	sdtRegOffsetMask = 0x0020FC00
	sdtRegOffsetExp  = 0x00206800
	sdtIndexMask     = 0x00200400
	sdtIndexExpected = 0x00000400
)

// Conditional select form masks
const (
	cselMask      = 0x7FE00C00
	cselExpected  = 0x1A800000
	csetMask      = 0x7FFF0FE0
	csetExpected  = 0x1A9F07E0
	csetmMask     = 0x7FFF0FE0
	csetmExpected = 0x5A9F03E0
	csincMask     = 0x7FE00C00
	csincExpected = 0x1A800400
	csinvMask     = 0x7FE00C00
	csinvExpected = 0x5A800000
	csnegMask     = 0x7FE00C00
	csnegExpected = 0x5A800400
)

// Scalar FP form mask
const (
	fpMask     = 0x7F200000
	fpExpected = 0x1E200000
)
