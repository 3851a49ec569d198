// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	reOrigin      = regexp.MustCompile(`^\$([0-9A-Fa-f]{1,4})\s*:\s*(.*)$`)
	reLabel       = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.*)$`)
	reDirective   = regexp.MustCompile(`^(?i)(\.org|\.equ|\.byte|\.word|dcb)(?:\s+(.*))?$`)
	reStarOrigin  = regexp.MustCompile(`^\*\s*=\s*(\S+)$`)
	reInstruction = regexp.MustCompile(`^([A-Za-z]{3})(?:\s+(.*))?$`)
	reIdent       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reWord        = regexp.MustCompile(`[$%]?\b[A-Za-z_][A-Za-z0-9_]*`)
	reChar        = regexp.MustCompile(`'\\?[^']'`)
	reExpression  = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a two pass assembler for 6502 machine code.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	labels    map[string]bool   // Labels defined anywhere in the source.
	Equate    map[string]string // Map of equates.
	Notices   []string          // Non-fatal notices from the last Parse.

	table     *Table
	origin    int  // Program start address.
	originSet bool // Set once an origin has been accepted.
	address   int  // Current emission address.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// SetTable selects the instruction catalogue used for opcode lookup.
func (asm *Assembler) SetTable(table *Table) {
	asm.table = table
}

// notice records a non-fatal message.
func (asm *Assembler) notice(lineno int, format string, args ...any) {
	text := f("line %v: %v", strconv.Itoa(lineno), f(format, args...))
	asm.Notices = append(asm.Notices, text)
	if asm.Verbose {
		log.Printf("asm: %v", text)
	}
}

// parseNumber parses a '$' hex, '%' binary or decimal literal. Wide is set
// for values written with more than two hex digits, or above $FF.
func parseNumber(word string) (value int, wide bool, err error) {
	var v64 uint64
	switch {
	case strings.HasPrefix(word, "$"):
		v64, err = strconv.ParseUint(word[1:], 16, 16)
		wide = len(word) > 3
	case strings.HasPrefix(word, "%"):
		v64, err = strconv.ParseUint(word[1:], 2, 16)
	case strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X"):
		v64, err = strconv.ParseUint(word[2:], 16, 16)
		wide = len(word) > 4
	default:
		v64, err = strconv.ParseUint(word, 10, 16)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if value > BYTE_MASK {
		wide = true
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		if asm.labels[key] {
			continue
		}
		var v int
		v, _, err = parseNumber(str)
		if err != nil {
			// Ignore non-numeric equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > MEMORY_MASK {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// formatNumber renders a value as a '$' hex literal, as narrow as it fits.
func formatNumber(value int) string {
	if value > BYTE_MASK {
		return fmt.Sprintf("$%04X", value)
	}
	return fmt.Sprintf("$%02X", value)
}

// expand performs character literal, $() expression and equate
// substitutions on an operand or directive argument.
func (asm *Assembler) expand(text string) (out string, err error) {
	// Do 'x' evaluations
	out = reChar.ReplaceAllStringFunc(text, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		}
		return fmt.Sprintf("%d", str[0])
	})

	// Do $() evaluations
	out = reExpression.ReplaceAllStringFunc(out, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return formatNumber(value)
	})
	if err != nil {
		return
	}

	// Do equate substitutions
	out = reWord.ReplaceAllStringFunc(out, func(word string) string {
		if word[0] == '$' || word[0] == '%' || asm.labels[word] {
			return word
		}
		equate, ok := asm.Equate[word]
		if ok {
			return equate
		}
		return word
	})

	return
}

// setOrigin accepts the first origin of the source, and ignores the rest.
func (asm *Assembler) setOrigin(text string, lineno int) (err error) {
	value, _, err := parseNumber(text)
	if err != nil {
		err = ErrOriginInvalid
		return
	}

	if asm.originSet {
		if value != asm.address {
			asm.notice(lineno, "origin %v ignored", formatNumber(value))
		}
		return
	}

	// Labels ahead of the first origin move with it.
	for label, address := range asm.Label {
		if address == asm.address {
			asm.Label[label] = value
		}
	}

	asm.originSet = true
	asm.origin = value
	asm.address = value

	return
}

// parseLine parses a single line, recording labels and emitting opcodes.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// $XXXX: memory origin label
	if match := reOrigin.FindStringSubmatch(line); match != nil {
		err = asm.setOrigin("$"+match[1], lineno)
		if err != nil {
			return
		}
		line = match[2]
	}

	// NAME: symbolic labels
	for {
		match := reLabel.FindStringSubmatch(line)
		if match == nil {
			break
		}
		label := match[1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.address
		line = match[2]
	}

	if len(line) == 0 {
		return
	}

	if match := reStarOrigin.FindStringSubmatch(line); match != nil {
		var arg string
		arg, err = asm.expand(match[1])
		if err != nil {
			return
		}
		err = asm.setOrigin(arg, lineno)
		return
	}

	if match := reDirective.FindStringSubmatch(line); match != nil {
		err = asm.parseDirective(strings.ToLower(match[1]), strings.TrimSpace(match[2]), lineno)
		return
	}

	match := reInstruction.FindStringSubmatch(line)
	if match == nil {
		err = ErrLineInvalid
		return
	}

	mnemonic := strings.ToUpper(match[1])
	operand := strings.Join(strings.Fields(match[2]), "")
	operand, err = asm.expand(operand)
	if err != nil {
		return
	}

	op, err := asm.parseInstruction(mnemonic, operand)
	if err != nil {
		return
	}

	err = asm.emit(op, lineno, []string{mnemonic, operand})

	return
}

// emit appends an opcode at the current address, and advances it.
func (asm *Assembler) emit(op Opcode, lineno int, words []string) (err error) {
	if asm.address+len(op.Bytes) > MEMORY_SIZE {
		err = ErrAddressRange
		return
	}

	// Code at the default origin fixes the start address.
	asm.originSet = true

	op.LineNo = lineno
	op.Address = asm.address
	op.Words = slices.DeleteFunc(words, func(a string) bool { return len(a) == 0 })
	asm.Opcode = append(asm.Opcode, op)
	asm.address += len(op.Bytes)

	return
}

// parseDirective handles .org, .equ and data directives.
func (asm *Assembler) parseDirective(directive string, args string, lineno int) (err error) {
	switch directive {
	case ".equ":
		words := strings.Fields(args)
		if len(words) < 2 || !reIdent.MatchString(words[0]) {
			err = ErrEquateSyntax
			return
		}
		if asm.labels[words[0]] {
			err = ErrLabelDuplicate
			return
		}
		_, ok := asm.Equate[words[0]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		var value string
		value, err = asm.expand(strings.Join(words[1:], ""))
		if err != nil {
			return
		}
		asm.Equate[words[0]] = value
	case ".org":
		args, err = asm.expand(args)
		if err != nil {
			return
		}
		err = asm.setOrigin(args, lineno)
	case ".byte", "dcb", ".word":
		args, err = asm.expand(strings.Join(strings.Fields(args), ""))
		if err != nil {
			return
		}
		if len(args) == 0 {
			err = ErrByteInvalid
			return
		}
		var data []byte
		for _, word := range strings.Split(args, ",") {
			var value int
			value, _, err = parseNumber(word)
			if err != nil {
				return
			}
			if directive == ".word" {
				data = append(data, byte(value), byte(value>>8))
				continue
			}
			if value > BYTE_MASK {
				err = ErrByteInvalid
				return
			}
			data = append(data, byte(value))
		}
		err = asm.emit(Opcode{Bytes: data}, lineno, []string{directive, args})
	}

	return
}

// operand is the parsed syntax of an instruction operand.
type operand struct {
	mode  Mode   // Addressing mode implied by the syntax.
	value int    // Numeric value, if no label.
	label string // Referenced label, if any.
	link  Link   // Label encoding for immediates.
	wide  bool   // Value requires a word.
}

// parseValue parses a number or a label reference.
func parseValue(text string) (opd operand, err error) {
	if reIdent.MatchString(text) {
		opd.label = text
		opd.wide = true
		return
	}

	opd.value, opd.wide, err = parseNumber(text)
	return
}

// parseOperand determines the addressing mode syntax of an operand.
func parseOperand(text string) (opd operand, err error) {
	upper := strings.ToUpper(text)

	switch {
	case len(text) == 0 || upper == "A":
		opd.mode = MODE_SINGLE
		return
	case strings.HasPrefix(text, "#"):
		body := text[1:]
		var part Link
		switch {
		case strings.HasPrefix(body, "<"):
			part = LINK_LOW
			body = body[1:]
		case strings.HasPrefix(body, ">"):
			part = LINK_HIGH
			body = body[1:]
		}
		opd, err = parseValue(body)
		if err != nil {
			return
		}
		opd.mode = MODE_IMMEDIATE
		switch {
		case part == LINK_LOW:
			opd.value &= BYTE_MASK
		case part == LINK_HIGH:
			opd.value >>= 8
		case len(opd.label) != 0 || opd.value > BYTE_MASK:
			err = ErrOperandInvalid
			return
		}
		if len(opd.label) != 0 {
			opd.link = part
		}
		opd.wide = false
		return
	case strings.HasPrefix(upper, "(") && strings.HasSuffix(upper, ",X)"):
		opd, err = parseValue(text[1 : len(text)-3])
		opd.mode = MODE_INDEXED_INDIRECT_X
	case strings.HasPrefix(upper, "(") && strings.HasSuffix(upper, "),Y"):
		opd, err = parseValue(text[1 : len(text)-3])
		opd.mode = MODE_INDIRECT_INDEXED_Y
	case strings.HasPrefix(upper, "(") && strings.HasSuffix(upper, ")"):
		opd, err = parseValue(text[1 : len(text)-1])
		opd.mode = MODE_INDIRECT
	case strings.HasSuffix(upper, ",X"):
		opd, err = parseValue(text[:len(text)-2])
		opd.mode = MODE_ZERO_PAGE_X
		if opd.wide {
			opd.mode = MODE_ABSOLUTE_X
		}
	case strings.HasSuffix(upper, ",Y"):
		opd, err = parseValue(text[:len(text)-2])
		opd.mode = MODE_ZERO_PAGE_Y
		if opd.wide {
			opd.mode = MODE_ABSOLUTE_Y
		}
	default:
		opd, err = parseValue(text)
		opd.mode = MODE_ZERO_PAGE
		if opd.wide {
			opd.mode = MODE_ABSOLUTE
		}
	}

	return
}

// widen maps zero page modes to their absolute equivalents.
var widen = map[Mode]Mode{
	MODE_ZERO_PAGE:   MODE_ABSOLUTE,
	MODE_ZERO_PAGE_X: MODE_ABSOLUTE_X,
	MODE_ZERO_PAGE_Y: MODE_ABSOLUTE_Y,
}

// narrow maps absolute modes to their zero page equivalents.
var narrow = map[Mode]Mode{
	MODE_ABSOLUTE:   MODE_ZERO_PAGE,
	MODE_ABSOLUTE_X: MODE_ZERO_PAGE_X,
	MODE_ABSOLUTE_Y: MODE_ZERO_PAGE_Y,
}

// selectInstruction picks the candidate matching the operand syntax.
func selectInstruction(candidates []*Instruction, opd operand) (inst *Instruction, mode Mode) {
	byMode := make(map[Mode]*Instruction, len(candidates))
	for _, candidate := range candidates {
		byMode[candidate.Mode] = candidate
	}

	mode = opd.mode

	// Branches take a target address.
	if rel, ok := byMode[MODE_RELATIVE]; ok && (mode == MODE_ZERO_PAGE || mode == MODE_ABSOLUTE) {
		return rel, MODE_RELATIVE
	}

	if inst, ok := byMode[mode]; ok {
		return inst, mode
	}

	if wide, ok := widen[mode]; ok {
		if inst, ok := byMode[wide]; ok {
			return inst, wide
		}
	}

	// Labels may name zero page addresses.
	if len(opd.label) != 0 {
		if zp, ok := narrow[mode]; ok {
			if inst, ok := byMode[zp]; ok {
				return inst, zp
			}
		}
	}

	return nil, mode
}

// parseInstruction encodes one instruction at the current address.
func (asm *Assembler) parseInstruction(mnemonic string, text string) (op Opcode, err error) {
	candidates := asm.table.Lookup(mnemonic)
	if len(candidates) == 0 {
		err = ErrOpcodeInvalid
		return
	}

	opd, err := parseOperand(text)
	if err != nil {
		return
	}

	inst, mode := selectInstruction(candidates, opd)
	if inst == nil {
		err = ErrModeInvalid
		return
	}

	op.Bytes = make([]byte, inst.Size)
	op.Bytes[0] = inst.Opcode

	if len(opd.label) != 0 {
		op.LinkLabel = opd.label
		switch {
		case mode == MODE_RELATIVE:
			op.Link = LINK_RELATIVE
		case opd.link != LINK_NONE:
			op.Link = opd.link
		case inst.Size == 3:
			op.Link = LINK_WORD
		default:
			op.Link = LINK_BYTE
		}
		return
	}

	switch {
	case mode == MODE_RELATIVE:
		err = link(op.Bytes, LINK_RELATIVE, asm.address, opd.value)
	case inst.Size == 3:
		err = link(op.Bytes, LINK_WORD, asm.address, opd.value)
	case inst.Size == 2:
		err = link(op.Bytes, LINK_BYTE, asm.address, opd.value)
	}

	return
}

// link encodes value into the operand bytes of the instruction at address.
func link(codes []byte, kind Link, address int, value int) (err error) {
	switch kind {
	case LINK_WORD:
		codes[1] = byte(value)
		codes[2] = byte(value >> 8)
	case LINK_BYTE:
		if value > BYTE_MASK {
			err = ErrAddressRange
			return
		}
		codes[1] = byte(value)
	case LINK_LOW:
		codes[1] = byte(value)
	case LINK_HIGH:
		codes[1] = byte(value >> 8)
	case LINK_RELATIVE:
		offset := value - (address + 2)
		if offset < -128 || offset > 127 {
			err = ErrBranchRange
			return
		}
		codes[1] = byte(offset)
	}

	return
}

// Parse parses an input stream into a Program. Parse does not modify any
// CPU state; on error no Program is returned.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.table == nil {
		asm.table = FillTable()
	}

	asm.Opcode = asm.Opcode[:0]
	asm.Notices = nil
	asm.Label = make(map[string]int, 16)
	asm.labels = map[string]bool{}
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.origin = DEFAULT_START
	asm.originSet = false
	asm.address = DEFAULT_START

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Labels shadow equates and predefines of the same name.
	for _, text := range lines {
		src := strings.TrimSpace(strings.Split(text, ";")[0])
		if match := reOrigin.FindStringSubmatch(src); match != nil {
			src = match[2]
		}
		for match := reLabel.FindStringSubmatch(src); match != nil; match = reLabel.FindStringSubmatch(src) {
			asm.labels[match[1]] = true
			src = match[2]
		}
	}

	// Pass 1: labels, equates and opcode encoding.
	for _, text := range lines {
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	// Pass 2: linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}

		err = link(op.Bytes, op.Link, op.Address, address)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Origin:  uint16(asm.origin),
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// Compile assembles the input, and only on success loads the program into
// the CPU memory and sets PC to its start address.
func (asm *Assembler) Compile(cpu *Cpu, input io.Reader) (prog *Program, err error) {
	if asm.table == nil {
		asm.table = cpu.Table()
	}

	prog, err = asm.Parse(input)
	if err != nil {
		return
	}

	prog.Load(cpu)

	return
}
