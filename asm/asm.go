// Package asm assembles the RV32I-subset textual syntax described by the
// spec into instruction words. The grammar is intentionally small: one
// instruction per line, no labels, no comments, decimal immediates only.
package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"
)

// ParseError reports a line this assembler could not turn into an
// instruction word, carrying the 1-based line number and offending text.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("asm: line %d: %s: %q", e.Line, e.Msg, e.Text)
}

type shape int

const (
	shapeRRR    shape = iota // op rD, rS1, rS2
	shapeRRI                 // op rD, rS1, imm
	shapeLoad                // op rD, imm(rS1)
	shapeStore               // op rS2, imm(rS1)
	shapeBranch              // op rS1, rS2, imm
	shapeUpper               // op rD, imm (jal, lui)
)

type mnemonic struct {
	shape                  shape
	opcode, funct3, funct7 uint32
}

var mnemonics = map[string]mnemonic{
	"add": {shapeRRR, units.OpcodeR, units.Funct3Add, units.Funct7Default},
	"sub": {shapeRRR, units.OpcodeR, units.Funct3Add, units.Funct7Alt},
	"and": {shapeRRR, units.OpcodeR, units.Funct3AndI, units.Funct7Default},
	"or":  {shapeRRR, units.OpcodeR, units.Funct3OrI, units.Funct7Default},
	"sll": {shapeRRR, units.OpcodeR, units.Funct3SllI, units.Funct7Default},
	"srl": {shapeRRR, units.OpcodeR, units.Funct3SrlI, units.Funct7Default},

	"addi": {shapeRRI, units.OpcodeIALU, units.Funct3SubOrAddI, 0},
	"andi": {shapeRRI, units.OpcodeIALU, units.Funct3AndI, 0},
	"ori":  {shapeRRI, units.OpcodeIALU, units.Funct3OrI, 0},
	"slli": {shapeRRI, units.OpcodeIALU, units.Funct3SllI, 0},
	"srli": {shapeRRI, units.OpcodeIALU, units.Funct3SrlI, 0},
	"jalr": {shapeRRI, units.OpcodeIJalr, units.Funct3Jalr, 0},

	"lw": {shapeLoad, units.OpcodeILoad, units.Funct3Load, 0},

	"sw": {shapeStore, units.OpcodeS, units.Funct3Store, 0},

	"beq": {shapeBranch, units.OpcodeSB, units.Funct3Beq, 0},
	"bne": {shapeBranch, units.OpcodeSB, units.Funct3Bne, 0},
	"blt": {shapeBranch, units.OpcodeSB, units.Funct3Blt, 0},
	"bge": {shapeBranch, units.OpcodeSB, units.Funct3Bge, 0},

	"jal": {shapeUpper, units.OpcodeUJ, 0, 0},
	"lui": {shapeUpper, units.OpcodeU, 0, 0},
}

var (
	reLine    = regexp.MustCompile(`^(\w+)\s+(.*)$`)
	reRRR     = regexp.MustCompile(`^x(\d{1,2})\s*,\s*x(\d{1,2})\s*,\s*x(\d{1,2})$`)
	reRRImm   = regexp.MustCompile(`^x(\d{1,2})\s*,\s*x(\d{1,2})\s*,\s*(-?\d+)$`)
	reRImm    = regexp.MustCompile(`^x(\d{1,2})\s*,\s*(-?\d+)$`)
	reRImmReg = regexp.MustCompile(`^x(\d{1,2})\s*,\s*(-?\d+)\(x(\d{1,2})\)$`)
)

// Assemble turns source into a sequence of instruction words, one per
// non-blank line, in program order. It fails on the first line it cannot
// parse.
func Assemble(source string) ([]word.Word, error) {
	lines := strings.Split(source, "\n")
	program := make([]word.Word, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		w, err := parseLine(line, i+1)
		if err != nil {
			return nil, err
		}
		program = append(program, w)
	}
	return program, nil
}

func parseLine(line string, lineNo int) (word.Word, error) {
	m := reLine.FindStringSubmatch(line)
	if m == nil {
		return word.Zero, &ParseError{lineNo, line, "cannot parse instruction"}
	}
	op := strings.ToLower(m[1])
	rest := strings.TrimSpace(m[2])

	mn, ok := mnemonics[op]
	if !ok {
		return word.Zero, &ParseError{lineNo, line, "unrecognised mnemonic"}
	}

	switch mn.shape {
	case shapeRRR:
		g := reRRR.FindStringSubmatch(rest)
		if g == nil {
			return word.Zero, &ParseError{lineNo, line, "expected rD, rS1, rS2"}
		}
		rd, rs1, rs2 := mustReg(g[1]), mustReg(g[2]), mustReg(g[3])
		if rd < 0 || rs1 < 0 || rs2 < 0 {
			return word.Zero, &ParseError{lineNo, line, "register index out of range"}
		}
		return encodeR(mn.opcode, mn.funct3, mn.funct7, rd, rs1, rs2), nil

	case shapeRRI:
		g := reRRImm.FindStringSubmatch(rest)
		if g == nil {
			return word.Zero, &ParseError{lineNo, line, "expected rD, rS1, imm"}
		}
		rd, rs1 := mustReg(g[1]), mustReg(g[2])
		imm, err := mustImm(g[3])
		if rd < 0 || rs1 < 0 || err != nil {
			return word.Zero, &ParseError{lineNo, line, "malformed operands"}
		}
		return encodeI(mn.opcode, mn.funct3, rd, rs1, imm), nil

	case shapeLoad:
		g := reRImmReg.FindStringSubmatch(rest)
		if g == nil {
			return word.Zero, &ParseError{lineNo, line, "expected rD, imm(rS1)"}
		}
		rd, base := mustReg(g[1]), mustReg(g[3])
		imm, err := mustImm(g[2])
		if rd < 0 || base < 0 || err != nil {
			return word.Zero, &ParseError{lineNo, line, "malformed operands"}
		}
		return encodeI(mn.opcode, mn.funct3, rd, base, imm), nil

	case shapeStore:
		g := reRImmReg.FindStringSubmatch(rest)
		if g == nil {
			return word.Zero, &ParseError{lineNo, line, "expected rS2, imm(rS1)"}
		}
		value, base := mustReg(g[1]), mustReg(g[3])
		imm, err := mustImm(g[2])
		if value < 0 || base < 0 || err != nil {
			return word.Zero, &ParseError{lineNo, line, "malformed operands"}
		}
		return encodeS(mn.opcode, mn.funct3, base, value, imm), nil

	case shapeBranch:
		g := reRRImm.FindStringSubmatch(rest)
		if g == nil {
			return word.Zero, &ParseError{lineNo, line, "expected rS1, rS2, imm"}
		}
		rs1, rs2 := mustReg(g[1]), mustReg(g[2])
		imm, err := mustImm(g[3])
		if rs1 < 0 || rs2 < 0 || err != nil {
			return word.Zero, &ParseError{lineNo, line, "malformed operands"}
		}
		return encodeS(mn.opcode, mn.funct3, rs1, rs2, imm), nil

	case shapeUpper:
		g := reRImm.FindStringSubmatch(rest)
		if g == nil {
			return word.Zero, &ParseError{lineNo, line, "expected rD, imm"}
		}
		rd := mustReg(g[1])
		imm, err := mustImm(g[2])
		if rd < 0 || err != nil {
			return word.Zero, &ParseError{lineNo, line, "malformed operands"}
		}
		return encodeUJ(mn.opcode, rd, imm), nil
	}

	return word.Zero, &ParseError{lineNo, line, "unsupported instruction shape"}
}

// mustReg parses a register index already matched by \d{1,2}, returning
// -1 if it names a register beyond x31.
func mustReg(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n > 31 {
		return -1
	}
	return n
}

func mustImm(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

// The encoders below follow the opcode table's two deliberate departures
// from standard RV32I: SB reuses S-type's split immediate field directly
// as a byte count, and UJ's 20-bit field is contiguous rather than
// scrambled. See units/immgen.go for the matching decode side.

func encodeR(opcode, funct3, funct7 uint32, rd, rs1, rs2 int) word.Word {
	raw := (funct7 << 25) | (uint32(rs2) << 20) | (uint32(rs1) << 15) |
		(funct3 << 12) | (uint32(rd) << 7) | opcode
	return word.FromUint32(raw)
}

func encodeI(opcode, funct3 uint32, rd, rs1 int, imm int32) word.Word {
	u := uint32(imm) & 0xFFF
	raw := (u << 20) | (uint32(rs1) << 15) | (funct3 << 12) | (uint32(rd) << 7) | opcode
	return word.FromUint32(raw)
}

func encodeS(opcode, funct3 uint32, rs1, rs2 int, imm int32) word.Word {
	u := uint32(imm) & 0xFFF
	upper := (u >> 5) & 0x7F
	lower := u & 0x1F
	raw := (upper << 25) | (uint32(rs2) << 20) | (uint32(rs1) << 15) |
		(funct3 << 12) | (lower << 7) | opcode
	return word.FromUint32(raw)
}

func encodeUJ(opcode uint32, rd int, imm int32) word.Word {
	u := uint32(imm) & 0xFFFFF
	raw := (u << 12) | (uint32(rd) << 7) | opcode
	return word.FromUint32(raw)
}
