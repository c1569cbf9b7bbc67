package vm

// Instruction is the decoded descriptor the driver dispatches: an opcode
// tag plus the operand fields the semantic transformer needs. The decoder
// fills only the fields meaningful for the tag.

// Opcode tags one architectural mnemonic/variant
type Opcode int

// Opcode tags, one per ARM ARM A4.1 mnemonic/variant
const (
	OpUndefined Opcode = iota
	OpADC
	OpADD
	OpAND
	OpB // B and BL, split by Link
	OpBIC
	OpBKPT
	OpBLX1
	OpBLX2
	OpBX
	OpBXJ
	OpCDP
	OpCLZ
	OpCMN
	OpCMP
	OpCPS
	OpCPY
	OpEOR
	OpLDC
	OpLDM1
	OpLDM2
	OpLDM3
	OpLDR
	OpLDRB
	OpLDRBT
	OpLDRD
	OpLDREX
	OpLDRH
	OpLDRSB
	OpLDRSH
	OpLDRT
	OpMCR
	OpMCRR
	OpMLA
	OpMOV
	OpMRC
	OpMRRC
	OpMRS
	OpMSR
	OpMUL
	OpMVN
	OpORR
	OpPKHBT
	OpPKHTB
	OpPLD
	OpQADD
	OpQADD16
	OpQADD8
	OpQADDSUBX
	OpQDADD
	OpQDSUB
	OpQSUB
	OpQSUB16
	OpQSUB8
	OpQSUBADDX
	OpREV
	OpREV16
	OpREVSH
	OpRFE
	OpRSB
	OpRSC
	OpSADD16
	OpSADD8
	OpSADDSUBX
	OpSBC
	OpSEL
	OpSETEND
	OpSHADD16
	OpSHADD8
	OpSHADDSUBX
	OpSHSUB16
	OpSHSUB8
	OpSHSUBADDX
	OpSMLA
	OpSMLAD
	OpSMLAL
	OpSMLALXY
	OpSMLALD
	OpSMLAW
	OpSMLSD
	OpSMLSLD
	OpSMMLA
	OpSMMLS
	OpSMMUL
	OpSMUAD
	OpSMUL
	OpSMULL
	OpSMULW
	OpSMUSD
	OpSRS
	OpSSAT
	OpSSAT16
	OpSSUB16
	OpSSUB8
	OpSSUBADDX
	OpSTC
	OpSTM1
	OpSTM2
	OpSTR
	OpSTRB
	OpSTRBT
	OpSTRD
	OpSTREX
	OpSTRH
	OpSTRT
	OpSUB
	OpSWI
	OpSWP
	OpSWPB
	OpSXTAB
	OpSXTAB16
	OpSXTAH
	OpSXTB
	OpSXTB16
	OpSXTH
	OpTEQ
	OpTST
	OpUADD16
	OpUADD8
	OpUADDSUBX
	OpUHADD16
	OpUHADD8
	OpUHADDSUBX
	OpUHSUB16
	OpUHSUB8
	OpUHSUBADDX
	OpUMAAL
	OpUMLAL
	OpUMULL
	OpUQADD16
	OpUQADD8
	OpUQADDSUBX
	OpUQSUB16
	OpUQSUB8
	OpUQSUBADDX
	OpUSAD8
	OpUSADA8
	OpUSAT
	OpUSAT16
	OpUSUB16
	OpUSUB8
	OpUSUBADDX
	OpUXTAB
	OpUXTAB16
	OpUXTAH
	OpUXTB
	OpUXTB16
	OpUXTH
)

// OperandForm selects the shifter or addressing-mode helper the driver
// runs before dispatching the transformer
type OperandForm int

const (
	FormNone OperandForm = iota

	// Data-processing shifter forms (A5.1)
	FormImmediate
	FormRegister
	FormLSLImmediate
	FormLSLRegister
	FormLSRImmediate
	FormLSRRegister
	FormASRImmediate
	FormASRRegister
	FormRORImmediate
	FormRORRegister
	FormRRX

	// Word/unsigned-byte address forms (A5.2)
	FormImmediateOffset
	FormRegisterOffset
	FormScaledRegisterOffset
	FormImmediatePreIndexed
	FormRegisterPreIndexed
	FormScaledRegisterPreIndexed
	FormImmediatePostIndexed
	FormRegisterPostIndexed
	FormScaledRegisterPostIndexed

	// Miscellaneous address forms (A5.3)
	FormMiscImmediateOffset
	FormMiscRegisterOffset
	FormMiscImmediatePreIndexed
	FormMiscRegisterPreIndexed
	FormMiscImmediatePostIndexed
	FormMiscRegisterPostIndexed

	// Load/store multiple block forms (A5.4)
	FormIncrementAfter
	FormIncrementBefore
	FormDecrementAfter
	FormDecrementBefore

	// Coprocessor address forms (A5.5)
	FormCoprocImmediateOffset
	FormCoprocImmediatePreIndexed
	FormCoprocImmediatePostIndexed
	FormCoprocUnindexed
)

// Instruction represents a decoded ARM instruction
type Instruction struct {
	Address uint32
	Raw     uint32
	Op      Opcode
	Cond    ConditionCode
	Form    OperandForm

	S    bool // flag-setting bit
	Link bool // B vs BL

	Rd int
	Rn int
	Rm int
	Rs int

	ShiftImm  uint8  // immediate shift amount / scaled-register amount
	Shift     uint8  // scaled-register shift selector (LSL/LSR/ASR/ROR)
	RotateImm uint8  // immediate-form rotation
	Immed8    uint8  // immediate-form value / coprocessor offset
	Offset12  uint16 // word/byte addressing immediate
	ImmedL    uint8  // miscellaneous addressing nibbles
	ImmedH    uint8
	Immed24   uint32 // branch offset / SWI comment / BKPT number
	HBit      uint32 // BLX(1) halfword adjust

	RegisterList uint16
	U            bool // offset direction
	W            bool // base writeback

	X, Y bool // halfword selectors; X doubles as the dual-swap bit
	R    bool // SPSR select (MRS/MSR) or rounding bit (SMML*)

	CpNum     int
	FieldMask uint8

	SatImm   uint8
	ShiftBit bool  // SSAT/USAT shift selector (ASR when set)
	Rotate   uint8 // extend-family byte rotation

	Mode    Mode // CPS/SRS target mode
	Imod    uint8
	Mmod    bool
	AffectA bool
	AffectI bool
	AffectF bool

	BigEndian bool // SETEND
}
