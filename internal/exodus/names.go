package exodus

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// UnitKind tags what a CodeUnit carries.
type UnitKind int

const (
	// UnitByte is one raw byte of a char table row, still to be decoded.
	UnitByte UnitKind = iota
	// UnitScalar is text the backend already decoded (netCDF-4 strings).
	UnitScalar
)

// CodeUnit is one position of a fixed-width name row.
type CodeUnit struct {
	Kind   UnitKind
	Byte   byte
	Text   string
	Masked bool // fill or padding, excluded from the name
}

// NameRow is one row of a variable name table.
type NameRow []CodeUnit

// ByteRow builds a row from raw char bytes. NUL is the netCDF char fill
// value and is treated as masked.
func ByteRow(b []byte) NameRow {
	row := make(NameRow, len(b))
	for i, c := range b {
		row[i] = CodeUnit{Kind: UnitByte, Byte: c, Masked: c == 0}
	}
	return row
}

// ScalarRow builds a row of already decoded units. Empty units are masked.
func ScalarRow(parts ...string) NameRow {
	row := make(NameRow, len(parts))
	for i, p := range parts {
		row[i] = CodeUnit{Kind: UnitScalar, Text: p, Masked: p == ""}
	}
	return row
}

// Compress returns the row without its masked units.
func (r NameRow) Compress() NameRow {
	out := make(NameRow, 0, len(r))
	for _, u := range r {
		if !u.Masked {
			out = append(out, u)
		}
	}
	return out
}

// DecodedName is the outcome of decoding one row: either the decoded text or
// a placeholder with the reason the row could not be used.
type DecodedName struct {
	Name     string
	Fallback bool
	Reason   string
}

// Placeholder is the name given to the variable at 1-based position index
// when its row cannot be decoded.
func Placeholder(index int) string {
	return fmt.Sprintf("Var_%d", index)
}

// DecodeName decodes a name row. index is the 1-based row position and only
// feeds the placeholder.
func DecodeName(row NameRow, index int) DecodedName {
	var (
		sb      strings.Builder
		pending []byte
	)
	flush := func() bool {
		if len(pending) == 0 {
			return true
		}
		if !utf8.Valid(pending) {
			return false
		}
		sb.Write(pending)
		pending = pending[:0]
		return true
	}

	for _, u := range row.Compress() {
		switch u.Kind {
		case UnitByte:
			pending = append(pending, u.Byte)
		case UnitScalar:
			if !flush() {
				return fallback(index, "invalid UTF-8 byte sequence")
			}
			sb.WriteString(u.Text)
		default:
			return fallback(index, fmt.Sprintf("unknown code unit kind %d", u.Kind))
		}
	}
	if !flush() {
		return fallback(index, "invalid UTF-8 byte sequence")
	}

	name := strings.TrimSpace(sb.String())
	if name == "" {
		return fallback(index, "empty or fully masked row")
	}
	return DecodedName{Name: name}
}

func fallback(index int, reason string) DecodedName {
	return DecodedName{Name: Placeholder(index), Fallback: true, Reason: reason}
}

// DecodeNames decodes every row of a table in order.
func DecodeNames(rows []NameRow) []DecodedName {
	out := make([]DecodedName, len(rows))
	for i, row := range rows {
		out[i] = DecodeName(row, i+1)
	}
	return out
}
