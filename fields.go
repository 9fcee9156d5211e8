package stoplight

import (
	"reflect"
	"strings"
)

// fieldInfo locates one writable attribute of a record type.
type fieldInfo struct {
	index  []int  // reflect.Value.FieldByIndex access path
	name   string // Go field name
	column string // bun or db tag name, else the derived snake_case name
}

// typeInfo is the attribute table for one record type.
// It is immutable once built.
type typeInfo struct {
	name    string
	fields  map[string]fieldInfo // keyed by Go name
	columns map[string]string    // column name -> Go name
	pk      string               // Go name of the primary key, empty if none
}

// lookup resolves a rule field by Go name first, then by column name.
func (ti *typeInfo) lookup(name string) (fieldInfo, bool) {
	if f, ok := ti.fields[name]; ok {
		return f, true
	}
	if goName, ok := ti.columns[name]; ok {
		return ti.fields[goName], true
	}
	return fieldInfo{}, false
}

// buildTypeInfo scans the exported fields of struct type rt, including
// fields promoted from embedded structs. Fields reached through an
// embedded pointer are skipped since they may be nil on an instance.
//
// The primary key is, in order of precedence: pkOverride, the name returned
// by PrimaryKeyer, the field tagged `bun:",pk"` or `db:",pk"`, a field named ID.
func buildTypeInfo(rt reflect.Type, pkOverride string) *typeInfo {
	ti := &typeInfo{
		name:    rt.Name(),
		fields:  make(map[string]fieldInfo),
		columns: make(map[string]string),
	}

	var taggedPK string
	for _, sf := range reflect.VisibleFields(rt) {
		if !sf.IsExported() || sf.Anonymous || crossesPointer(rt, sf.Index) {
			continue
		}
		if _, seen := ti.fields[sf.Name]; seen {
			continue
		}

		column, pk := columnTag(sf.Tag)
		if column == "" {
			column = underscore(sf.Name)
		}
		ti.fields[sf.Name] = fieldInfo{index: sf.Index, name: sf.Name, column: column}
		if column != "-" {
			ti.columns[column] = sf.Name
		}
		if pk && taggedPK == "" {
			taggedPK = sf.Name
		}
	}

	switch {
	case pkOverride != "":
		ti.pk = ti.resolveName(pkOverride)
	case implementsPrimaryKeyer(rt):
		pker := reflect.New(rt).Interface().(PrimaryKeyer)
		ti.pk = ti.resolveName(pker.PrimaryKey())
	case taggedPK != "":
		ti.pk = taggedPK
	default:
		if _, ok := ti.fields["ID"]; ok {
			ti.pk = "ID"
		}
	}

	return ti
}

// resolveName maps a Go or column name to its Go name.
func (ti *typeInfo) resolveName(name string) string {
	if f, ok := ti.lookup(name); ok {
		return f.name
	}
	return name
}

func implementsPrimaryKeyer(rt reflect.Type) bool {
	return reflect.PointerTo(rt).Implements(reflect.TypeFor[PrimaryKeyer]())
}

// crossesPointer reports whether the index path crosses a pointer.
func crossesPointer(rt reflect.Type, index []int) bool {
	t := rt
	for i, idx := range index {
		if i > 0 && t.Kind() == reflect.Pointer {
			return true
		}
		t = t.Field(idx).Type
	}
	return false
}

// underscore converts a Go field name to the snake_case column name bun
// derives by default: PhoneNumber -> phone_number, ID -> id.
func underscore(s string) string {
	b := make([]byte, 0, len(s)+5)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isUpper(c) {
			b = append(b, c)
			continue
		}
		if i > 0 && i+1 < len(s) && (isLower(s[i+1]) || isLower(s[i-1])) {
			b = append(b, '_')
		}
		b = append(b, c+('a'-'A'))
	}
	return string(b)
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// columnTag reads the column name and pk option from the bun tag,
// falling back to the db tag.
func columnTag(tag reflect.StructTag) (column string, pk bool) {
	for _, key := range []string{"bun", "db"} {
		val, ok := tag.Lookup(key)
		if !ok {
			continue
		}
		parts := strings.Split(val, ",")
		column = strings.TrimSpace(parts[0])
		for _, opt := range parts[1:] {
			if strings.TrimSpace(opt) == "pk" {
				pk = true
			}
		}
		return column, pk
	}
	return "", false
}
