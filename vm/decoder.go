package vm

// Decode maps a fetched 32-bit ARM-state word to its tagged instruction
// descriptor. Words that match no ARMv6 encoding decode to OpUndefined;
// the driver decides how to surface those.
func Decode(address, word uint32) *Instruction {
	inst := &Instruction{
		Address: address,
		Raw:     word,
		Op:      OpUndefined,
		Cond:    ConditionCode(word >> 28 & 0xF),
	}
	if inst.Cond == CondNV {
		decodeUnconditional(inst, word)
		return inst
	}
	switch word >> 25 & 0x7 {
	case 0:
		decode000(inst, word)
	case 1:
		decode001(inst, word)
	case 2, 3:
		decodeLoadStore(inst, word)
	case 4:
		decodeLoadStoreMultiple(inst, word)
	case 5:
		inst.Op = OpB
		inst.Link = word>>24&1 == 1
		inst.Immed24 = word & 0x00FFFFFF
	case 6:
		decodeCoprocTransfer(inst, word)
	case 7:
		if word>>24&1 == 1 {
			inst.Op = OpSWI
			inst.Immed24 = word & 0x00FFFFFF
		} else if word>>4&1 == 0 {
			inst.Op = OpCDP
			inst.CpNum = int(word >> 8 & 0xF)
		} else {
			inst.CpNum = int(word >> 8 & 0xF)
			inst.Rd = int(word >> 12 & 0xF)
			if word>>20&1 == 0 {
				inst.Op = OpMCR
			} else {
				inst.Op = OpMRC
			}
		}
	}
	return inst
}

// commonRegisters fills the four standard register fields
func commonRegisters(inst *Instruction, word uint32) {
	inst.Rn = int(word >> 16 & 0xF)
	inst.Rd = int(word >> 12 & 0xF)
	inst.Rs = int(word >> 8 & 0xF)
	inst.Rm = int(word & 0xF)
}

// dataProcessingOps maps the 4-bit DP opcode field to instruction tags
var dataProcessingOps = [16]Opcode{
	OpAND, OpEOR, OpSUB, OpRSB, OpADD, OpADC, OpSBC, OpRSC,
	OpTST, OpTEQ, OpCMP, OpCMN, OpORR, OpMOV, OpBIC, OpMVN,
}

// decode000 covers data-processing register forms, multiplies, the
// miscellaneous control space and the extra load/store encodings
func decode000(inst *Instruction, word uint32) {
	bits74 := word >> 4 & 0x9
	switch {
	case word>>4&0xF == 0x9:
		decodeMultiplySwap(inst, word)
		return
	case bits74 == 0x9:
		decodeExtraLoadStore(inst, word)
		return
	case word>>23&0x3 == 0x2 && word>>20&1 == 0:
		decodeMiscControl(inst, word)
		return
	}
	commonRegisters(inst, word)
	inst.Op = dataProcessingOps[word>>21&0xF]
	inst.S = word>>20&1 == 1
	byReg := word>>4&1 == 1
	shiftType := word >> 5 & 0x3
	if byReg {
		switch shiftType {
		case 0:
			inst.Form = FormLSLRegister
		case 1:
			inst.Form = FormLSRRegister
		case 2:
			inst.Form = FormASRRegister
		default:
			inst.Form = FormRORRegister
		}
	} else {
		inst.ShiftImm = uint8(word >> 7 & 0x1F)
		switch shiftType {
		case 0:
			if inst.ShiftImm == 0 {
				inst.Form = FormRegister
			} else {
				inst.Form = FormLSLImmediate
			}
		case 1:
			inst.Form = FormLSRImmediate
		case 2:
			inst.Form = FormASRImmediate
		default:
			// ROR #0 encodes RRX
			inst.Form = FormRORImmediate
		}
	}
}

// decode001 covers data-processing immediate forms and MSR immediate
func decode001(inst *Instruction, word uint32) {
	opcode := word >> 21 & 0xF
	s := word>>20&1 == 1
	if (opcode == 0x9 || opcode == 0xB) && !s {
		// MSR immediate: TST/CMN slots with S=0
		inst.Op = OpMSR
		inst.R = word>>22&1 == 1
		inst.FieldMask = uint8(word >> 16 & 0xF)
		inst.RotateImm = uint8(word >> 8 & 0xF)
		inst.Immed8 = uint8(word)
		inst.Form = FormImmediate
		return
	}
	if (opcode == 0x8 || opcode == 0xA) && !s {
		return // MRS/undefined space with bit25 set
	}
	commonRegisters(inst, word)
	inst.Op = dataProcessingOps[opcode]
	inst.S = s
	inst.Form = FormImmediate
	inst.RotateImm = uint8(word >> 8 & 0xF)
	inst.Immed8 = uint8(word)
}

// decodeMultiplySwap covers the bits[7:4]=1001 space: multiplies, SWP and
// the exclusive pair
func decodeMultiplySwap(inst *Instruction, word uint32) {
	commonRegisters(inst, word)
	inst.S = word>>20&1 == 1
	switch word >> 21 & 0xF {
	case 0x0:
		inst.Op = OpMUL
		inst.Rd, inst.Rn = inst.Rn, inst.Rd
	case 0x1:
		inst.Op = OpMLA
		inst.Rd, inst.Rn = inst.Rn, inst.Rd
	case 0x2:
		if !inst.S {
			inst.Op = OpUMAAL
		}
	case 0x4:
		inst.Op = OpUMULL
	case 0x5:
		inst.Op = OpUMLAL
	case 0x6:
		inst.Op = OpSMULL
	case 0x7:
		inst.Op = OpSMLAL
	case 0x8:
		if !inst.S {
			inst.Op = OpSWP
		}
	case 0xA:
		if !inst.S {
			inst.Op = OpSWPB
		}
	case 0xC:
		if !inst.S {
			inst.Op = OpSTREX
		} else {
			inst.Op = OpLDREX
		}
	}
}

// decodeExtraLoadStore covers the halfword, signed and doubleword
// load/store encodings
func decodeExtraLoadStore(inst *Instruction, word uint32) {
	commonRegisters(inst, word)
	load := word>>20&1 == 1
	switch word >> 5 & 0x3 {
	case 1:
		if load {
			inst.Op = OpLDRH
		} else {
			inst.Op = OpSTRH
		}
	case 2:
		if load {
			inst.Op = OpLDRSB
		} else {
			inst.Op = OpLDRD
		}
	case 3:
		if load {
			inst.Op = OpLDRSH
		} else {
			inst.Op = OpSTRD
		}
	default:
		inst.Op = OpUndefined
		return
	}
	inst.U = word>>23&1 == 1
	inst.W = word>>21&1 == 1
	p := word>>24&1 == 1
	immediate := word>>22&1 == 1
	if immediate {
		inst.ImmedH = uint8(word >> 8 & 0xF)
		inst.ImmedL = uint8(word & 0xF)
		switch {
		case p && !inst.W:
			inst.Form = FormMiscImmediateOffset
		case p && inst.W:
			inst.Form = FormMiscImmediatePreIndexed
		default:
			inst.Form = FormMiscImmediatePostIndexed
		}
	} else {
		switch {
		case p && !inst.W:
			inst.Form = FormMiscRegisterOffset
		case p && inst.W:
			inst.Form = FormMiscRegisterPreIndexed
		default:
			inst.Form = FormMiscRegisterPostIndexed
		}
	}
}

// decodeMiscControl covers the S=0 compare-slot space: status transfers,
// interworking branches, CLZ, BKPT, the saturating add/subtract pair and
// the signed halfword multiplies
func decodeMiscControl(inst *Instruction, word uint32) {
	commonRegisters(inst, word)
	switch {
	case word&0x0FBF0FFF == 0x010F0000:
		inst.Op = OpMRS
		inst.R = word>>22&1 == 1
	case word&0x0FB0FFF0 == 0x0120F000:
		inst.Op = OpMSR
		inst.R = word>>22&1 == 1
		inst.FieldMask = uint8(word >> 16 & 0xF)
		inst.Form = FormRegister
	case word&0x0FF000F0 == 0x01200010:
		inst.Op = OpBX
	case word&0x0FF000F0 == 0x01200020:
		inst.Op = OpBXJ
	case word&0x0FF000F0 == 0x01200030:
		inst.Op = OpBLX2
	case word&0x0FF000F0 == 0x01200070:
		inst.Op = OpBKPT
		inst.Immed24 = (word>>8&0xFFF)<<4 | word&0xF
	case word&0x0FF000F0 == 0x01600010:
		inst.Op = OpCLZ
	case word&0x0FF000F0 == 0x01000050:
		inst.Op = OpQADD
	case word&0x0FF000F0 == 0x01200050:
		inst.Op = OpQSUB
	case word&0x0FF000F0 == 0x01400050:
		inst.Op = OpQDADD
	case word&0x0FF000F0 == 0x01600050:
		inst.Op = OpQDSUB
	case word&0x0FF00090 == 0x01000080:
		inst.Op = OpSMLA
		inst.X = word>>5&1 == 1
		inst.Y = word>>6&1 == 1
		inst.Rd, inst.Rn = inst.Rn, inst.Rd
	case word&0x0FF000B0 == 0x01200080:
		inst.Op = OpSMLAW
		inst.Y = word>>6&1 == 1
		inst.Rd, inst.Rn = inst.Rn, inst.Rd
	case word&0x0FF000B0 == 0x012000A0:
		inst.Op = OpSMULW
		inst.Y = word>>6&1 == 1
		inst.Rd = inst.Rn
	case word&0x0FF00090 == 0x01400080:
		inst.Op = OpSMLALXY
		inst.X = word>>5&1 == 1
		inst.Y = word>>6&1 == 1
	case word&0x0FF00090 == 0x01600080:
		inst.Op = OpSMUL
		inst.X = word>>5&1 == 1
		inst.Y = word>>6&1 == 1
		inst.Rd = inst.Rn
	}
}

// decodeLoadStore covers the word/unsigned-byte load/store space and, when
// bit 4 is set in the register-offset half, the media space
func decodeLoadStore(inst *Instruction, word uint32) {
	register := word>>25&1 == 1
	if register && word>>4&1 == 1 {
		decodeMedia(inst, word)
		return
	}
	commonRegisters(inst, word)
	load := word>>20&1 == 1
	byteForm := word>>22&1 == 1
	p := word>>24&1 == 1
	inst.U = word>>23&1 == 1
	inst.W = word>>21&1 == 1
	translate := !p && inst.W
	switch {
	case load && byteForm && translate:
		inst.Op = OpLDRBT
	case load && byteForm:
		inst.Op = OpLDRB
	case load && translate:
		inst.Op = OpLDRT
	case load:
		inst.Op = OpLDR
	case byteForm && translate:
		inst.Op = OpSTRBT
	case byteForm:
		inst.Op = OpSTRB
	case translate:
		inst.Op = OpSTRT
	default:
		inst.Op = OpSTR
	}
	if register {
		inst.ShiftImm = uint8(word >> 7 & 0x1F)
		inst.Shift = uint8(word >> 5 & 0x3)
		scaled := inst.ShiftImm != 0 || inst.Shift != 0
		switch {
		case p && !inst.W && scaled:
			inst.Form = FormScaledRegisterOffset
		case p && !inst.W:
			inst.Form = FormRegisterOffset
		case p && scaled:
			inst.Form = FormScaledRegisterPreIndexed
		case p:
			inst.Form = FormRegisterPreIndexed
		case scaled:
			inst.Form = FormScaledRegisterPostIndexed
		default:
			inst.Form = FormRegisterPostIndexed
		}
	} else {
		inst.Offset12 = uint16(word & 0xFFF)
		switch {
		case p && !inst.W:
			inst.Form = FormImmediateOffset
		case p:
			inst.Form = FormImmediatePreIndexed
		default:
			inst.Form = FormImmediatePostIndexed
		}
	}
}

// parallelAddSubOps maps (opc1, opc2) of the parallel add/subtract space
var parallelAddSubOps = map[uint32][6]Opcode{
	1: {OpSADD16, OpSADDSUBX, OpSSUBADDX, OpSSUB16, OpSADD8, OpSSUB8},
	2: {OpQADD16, OpQADDSUBX, OpQSUBADDX, OpQSUB16, OpQADD8, OpQSUB8},
	3: {OpSHADD16, OpSHADDSUBX, OpSHSUBADDX, OpSHSUB16, OpSHADD8, OpSHSUB8},
	5: {OpUADD16, OpUADDSUBX, OpUSUBADDX, OpUSUB16, OpUADD8, OpUSUB8},
	6: {OpUQADD16, OpUQADDSUBX, OpUQSUBADDX, OpUQSUB16, OpUQADD8, OpUQSUB8},
	7: {OpUHADD16, OpUHADDSUBX, OpUHSUBADDX, OpUHSUB16, OpUHADD8, OpUHSUB8},
}

// decodeMedia covers the ARMv6 media space: parallel add/subtract, pack,
// saturate, extend, select, reverse, and the dual/most-significant-word
// multiplies
func decodeMedia(inst *Instruction, word uint32) {
	commonRegisters(inst, word)
	switch word >> 23 & 0x3 {
	case 0: // parallel add/subtract
		ops, ok := parallelAddSubOps[word>>20&0x7]
		if !ok {
			return
		}
		switch word >> 5 & 0x7 {
		case 0:
			inst.Op = ops[0]
		case 1:
			inst.Op = ops[1]
		case 2:
			inst.Op = ops[2]
		case 3:
			inst.Op = ops[3]
		case 4:
			inst.Op = ops[4]
		case 7:
			inst.Op = ops[5]
		}
	case 1: // pack, saturate, extend, select, reverse
		decodePackSatExtend(inst, word)
	case 2: // dual and most-significant-word multiplies
		decodeDualMultiply(inst, word)
	case 3:
		if word>>20&0x7 == 0 && word>>4&0xF == 0x1 {
			if inst.Rd == 0xF {
				inst.Op = OpUSAD8
			} else {
				inst.Op = OpUSADA8
			}
			// Rd occupies the Rn slot in this encoding
			inst.Rd, inst.Rn = inst.Rn, inst.Rd
		}
	}
}

func decodePackSatExtend(inst *Instruction, word uint32) {
	op1 := word >> 20 & 0x7
	bits74 := word >> 4 & 0xF
	switch {
	case op1 == 0 && word>>4&0x7 == 0x1:
		inst.Op = OpPKHBT
		inst.ShiftImm = uint8(word >> 7 & 0x1F)
	case op1 == 0 && word>>4&0x7 == 0x5:
		inst.Op = OpPKHTB
		inst.ShiftImm = uint8(word >> 7 & 0x1F)
	case op1 == 0 && bits74 == 0xB:
		inst.Op = OpSEL
	case word>>21&0x3 == 0x1 && word>>4&0x3 == 0x1:
		inst.Op = OpSSAT
		inst.SatImm = uint8(word >> 16 & 0x1F)
		inst.ShiftImm = uint8(word >> 7 & 0x1F)
		inst.ShiftBit = word>>6&1 == 1
	case word>>21&0x3 == 0x3 && word>>4&0x3 == 0x1:
		inst.Op = OpUSAT
		inst.SatImm = uint8(word >> 16 & 0x1F)
		inst.ShiftImm = uint8(word >> 7 & 0x1F)
		inst.ShiftBit = word>>6&1 == 1
	case op1 == 2 && bits74 == 0x3:
		inst.Op = OpSSAT16
		inst.SatImm = uint8(word >> 16 & 0xF)
	case op1 == 6 && bits74 == 0x3:
		inst.Op = OpUSAT16
		inst.SatImm = uint8(word >> 16 & 0xF)
	case op1 == 3 && bits74 == 0x3:
		inst.Op = OpREV
	case op1 == 3 && bits74 == 0xB:
		inst.Op = OpREV16
	case op1 == 7 && bits74 == 0xB:
		inst.Op = OpREVSH
	case bits74 == 0x7:
		inst.Rotate = uint8(word >> 10 & 0x3)
		accumulate := inst.Rn != 0xF
		switch op1 {
		case 0:
			if accumulate {
				inst.Op = OpSXTAB16
			} else {
				inst.Op = OpSXTB16
			}
		case 2:
			if accumulate {
				inst.Op = OpSXTAB
			} else {
				inst.Op = OpSXTB
			}
		case 3:
			if accumulate {
				inst.Op = OpSXTAH
			} else {
				inst.Op = OpSXTH
			}
		case 4:
			if accumulate {
				inst.Op = OpUXTAB16
			} else {
				inst.Op = OpUXTB16
			}
		case 6:
			if accumulate {
				inst.Op = OpUXTAB
			} else {
				inst.Op = OpUXTB
			}
		case 7:
			if accumulate {
				inst.Op = OpUXTAH
			} else {
				inst.Op = OpUXTH
			}
		}
	}
}

func decodeDualMultiply(inst *Instruction, word uint32) {
	op1 := word >> 20 & 0x7
	op2 := word >> 4 & 0xF
	switch op1 {
	case 0:
		// Rd occupies the Rn slot; Rn carries the accumulator
		dualAcc := inst.Rd != 0xF
		inst.Rd, inst.Rn = inst.Rn, inst.Rd
		inst.X = word>>5&1 == 1
		switch op2 &^ 0x2 {
		case 0x1:
			if dualAcc {
				inst.Op = OpSMLAD
			} else {
				inst.Op = OpSMUAD
			}
		case 0x5:
			if dualAcc {
				inst.Op = OpSMLSD
			} else {
				inst.Op = OpSMUSD
			}
		}
	case 4:
		inst.X = word>>5&1 == 1
		switch op2 &^ 0x2 {
		case 0x1:
			inst.Op = OpSMLALD
		case 0x5:
			inst.Op = OpSMLSLD
		}
	case 5:
		accumulate := inst.Rd != 0xF
		inst.Rd, inst.Rn = inst.Rn, inst.Rd
		inst.R = word>>5&1 == 1
		switch op2 &^ 0x2 {
		case 0x1:
			if accumulate {
				inst.Op = OpSMMLA
			} else {
				inst.Op = OpSMMUL
			}
		case 0xD:
			inst.Op = OpSMMLS
		}
	}
}

// decodeLoadStoreMultiple covers LDM and STM in all bank/PSR variants
func decodeLoadStoreMultiple(inst *Instruction, word uint32) {
	inst.Rn = int(word >> 16 & 0xF)
	inst.RegisterList = uint16(word & 0xFFFF)
	inst.U = word>>23&1 == 1
	inst.W = word>>21&1 == 1
	load := word>>20&1 == 1
	userBank := word>>22&1 == 1
	p := word>>24&1 == 1
	switch {
	case p && inst.U:
		inst.Form = FormIncrementBefore
	case inst.U:
		inst.Form = FormIncrementAfter
	case p:
		inst.Form = FormDecrementBefore
	default:
		inst.Form = FormDecrementAfter
	}
	switch {
	case load && !userBank:
		inst.Op = OpLDM1
	case load && inst.RegisterList>>15&1 == 0:
		inst.Op = OpLDM2
	case load:
		inst.Op = OpLDM3
	case userBank:
		inst.Op = OpSTM2
	default:
		inst.Op = OpSTM1
	}
}

// decodeCoprocTransfer covers LDC/STC and the MCRR/MRRC pair
func decodeCoprocTransfer(inst *Instruction, word uint32) {
	inst.CpNum = int(word >> 8 & 0xF)
	inst.Rn = int(word >> 16 & 0xF)
	inst.Rd = int(word >> 12 & 0xF)
	if word&0x0FE00000 == 0x0C400000 {
		inst.Rm = int(word & 0xF)
		if word>>20&1 == 0 {
			inst.Op = OpMCRR
		} else {
			inst.Op = OpMRRC
		}
		return
	}
	load := word>>20&1 == 1
	if load {
		inst.Op = OpLDC
	} else {
		inst.Op = OpSTC
	}
	inst.U = word>>23&1 == 1
	inst.W = word>>21&1 == 1
	inst.Immed8 = uint8(word)
	p := word>>24&1 == 1
	switch {
	case p && !inst.W:
		inst.Form = FormCoprocImmediateOffset
	case p:
		inst.Form = FormCoprocImmediatePreIndexed
	case inst.W:
		inst.Form = FormCoprocImmediatePostIndexed
	default:
		inst.Form = FormCoprocUnindexed
	}
}

// decodeUnconditional covers the cond=1111 space: BLX(1), CPS, SETEND,
// PLD, RFE and SRS
func decodeUnconditional(inst *Instruction, word uint32) {
	switch {
	case word>>25&0x7 == 0x5:
		inst.Op = OpBLX1
		inst.Immed24 = word & 0x00FFFFFF
		inst.HBit = word >> 24 & 1
	case word&0x0FF00000 == 0x01000000 && word>>16&1 == 1:
		inst.Op = OpSETEND
		inst.BigEndian = word>>9&1 == 1
	case word&0x0FF00000 == 0x01000000:
		inst.Op = OpCPS
		inst.Imod = uint8(word >> 18 & 0x3)
		inst.Mmod = word>>17&1 == 1
		inst.AffectA = word>>8&1 == 1
		inst.AffectI = word>>7&1 == 1
		inst.AffectF = word>>6&1 == 1
		inst.Mode = Mode(word & 0x1F)
	case word&0x0D70F000 == 0x0550F000:
		inst.Op = OpPLD
	case word&0x0E500000 == 0x08400000:
		inst.Op = OpSRS
		inst.Mode = Mode(word & 0x1F)
		inst.Rn = SP
		inst.U = word>>23&1 == 1
		inst.W = word>>21&1 == 1
		inst.blockFormFromPU(word)
	case word&0x0E500000 == 0x08100000:
		inst.Op = OpRFE
		inst.Rn = int(word >> 16 & 0xF)
		inst.U = word>>23&1 == 1
		inst.W = word>>21&1 == 1
		inst.blockFormFromPU(word)
	}
}

// blockFormFromPU derives the A5.4 block form from the P and U bits
func (inst *Instruction) blockFormFromPU(word uint32) {
	p := word>>24&1 == 1
	switch {
	case p && inst.U:
		inst.Form = FormIncrementBefore
	case inst.U:
		inst.Form = FormIncrementAfter
	case p:
		inst.Form = FormDecrementBefore
	default:
		inst.Form = FormDecrementAfter
	}
}
