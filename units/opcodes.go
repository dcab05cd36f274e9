package units

// Opcode values for the supported RV32I subset.
const (
	OpcodeR        = 0b0110011 // add, sub, and, or, sll, srl
	OpcodeIALU     = 0b0010011 // addi, andi, ...
	OpcodeILoad    = 0b0000011 // lw
	OpcodeIJalr    = 0b1100111 // jalr
	OpcodeS        = 0b0100011 // sw
	OpcodeSB       = 0b1100011 // beq, bne, blt, bge
	OpcodeU        = 0b0110111 // lui (accepted by the assembler, not executed)
	OpcodeUJ       = 0b1101111 // jal
)

// Funct3 values used to disambiguate within a format.
const (
	Funct3Add        = 0x0
	Funct3SubOrAddI  = 0x0
	Funct3AndI       = 0x7
	Funct3OrI        = 0x6
	Funct3SllI       = 0x1
	Funct3SrlI       = 0x5
	Funct3Load       = 0x2
	Funct3Store      = 0x2
	Funct3Jalr       = 0x0
	Funct3Beq        = 0x0
	Funct3Bne        = 0x1
	Funct3Blt        = 0x4
	Funct3Bge        = 0x5
)

// Funct7 values that disambiguate add/sub and srl-family instructions.
const (
	Funct7Default = 0x00
	Funct7Alt     = 0x20
)

func opcode(raw uint32) uint32 {
	return raw & 0x7F
}
