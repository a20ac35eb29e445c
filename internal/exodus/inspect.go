package exodus

import (
	"fmt"
	"strconv"
	"strings"
)

// Name table categories, in the order Inspect reports them.
var nameTables = []struct {
	Category string
	Field    string
}{
	{"Global Variables", GlobalNames},
	{"Nodal Variables", NodalNames},
	{"Elemental Variables", ElementNames},
}

// FieldSummary describes one raw field of a file. Exactly one of Strings,
// Summary and Err is meaningful.
type FieldSummary struct {
	Name    string
	Strings []string
	Summary string
	Err     error
}

// Text renders the summary the way the inspector prints it.
func (s FieldSummary) Text() string {
	switch {
	case s.Err != nil:
		return "Error reading: " + s.Err.Error()
	case s.Strings != nil:
		return "[" + strings.Join(quoteAll(s.Strings), ", ") + "]"
	}
	return s.Summary
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strconv.Quote(s)
	}
	return out
}

// NameTable is one decoded variable name table.
type NameTable struct {
	Category string
	Field    string
	Names    []string
}

// Inventory lists the fields and name tables of a file.
type Inventory struct {
	Fields     []FieldSummary
	NameTables []NameTable
	Notices    []Notice
}

// Map returns field name -> rendered summary.
func (inv *Inventory) Map() map[string]string {
	out := make(map[string]string, len(inv.Fields))
	for _, f := range inv.Fields {
		out[f.Name] = f.Text()
	}
	return out
}

// Lookup returns the summary of one field.
func (inv *Inventory) Lookup(name string) (FieldSummary, bool) {
	for _, f := range inv.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSummary{}, false
}

// Inspect lists every field of the file at path and decodes its variable
// name tables. Per-field failures are recorded on the summary; only a file
// that cannot be opened fails the call.
func (r *Reader) Inspect(path string) (*Inventory, error) {
	ds, err := r.acquire(path)
	if err != nil {
		return nil, err
	}
	defer r.release(ds, path)

	x := &extraction{ds: ds, log: r.log.WithField("path", path)}
	inv := &Inventory{}
	for _, name := range ds.Fields() {
		inv.Fields = append(inv.Fields, summarize(ds, name))
	}

	for _, t := range nameTables {
		if !x.has(t.Field) {
			continue
		}
		f, err := ds.Field(t.Field)
		if err != nil {
			x.notice(Notice{Kind: FieldReadWarning, Field: t.Field, Message: err.Error()})
			continue
		}
		rows, err := nameRows(f)
		if err != nil {
			x.notice(Notice{Kind: FieldReadWarning, Field: t.Field, Message: err.Error()})
			continue
		}
		names := make([]string, len(rows))
		for i, row := range rows {
			names[i] = x.decodeVariableName(t.Field, row, i+1)
		}
		inv.NameTables = append(inv.NameTables, NameTable{Category: t.Category, Field: t.Field, Names: names})
	}
	inv.Notices = x.notices
	return inv, nil
}

func summarize(ds Dataset, name string) FieldSummary {
	info, err := ds.Describe(name)
	if err != nil {
		return FieldSummary{Name: name, Err: err}
	}
	if len(info.Shape) == 1 && (info.Type == "char" || info.Type == "string") {
		f, err := ds.Field(name)
		if err != nil {
			return FieldSummary{Name: name, Err: err}
		}
		if list, ok := stringList(f.Values); ok {
			return FieldSummary{Name: name, Strings: list}
		}
	}
	return FieldSummary{Name: name, Summary: shapeSummary(info)}
}

func shapeSummary(info *FieldInfo) string {
	dims := make([]string, len(info.Shape))
	for i, n := range info.Shape {
		dims[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("Shape: (%s), Type: %s", strings.Join(dims, ", "), info.Type)
}
