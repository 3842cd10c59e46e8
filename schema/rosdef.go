package schema

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/bobject/errors"
)

const rosSeparator = "==="

// ParseROS parses a concatenated ROS1 message definition, as stored in bag
// connection headers, into a Map. The first section defines root; each
// following section starts with a "MSG: pkg/Name" line.
func ParseROS(root, text string) (Map, error) {
	type section struct {
		name  string
		lines []string
	}
	sections := []section{{name: root}}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, rosSeparator) {
			sections = append(sections, section{})
			continue
		}
		cur := &sections[len(sections)-1]
		if name, ok := strings.CutPrefix(trimmed, "MSG:"); ok && cur.name == "" {
			cur.name = strings.TrimSpace(name)
			continue
		}
		cur.lines = append(cur.lines, line)
	}

	defined := make(map[string]bool, len(sections))
	for _, s := range sections {
		defined[s.name] = true
	}

	m := make(Map, len(sections))
	for _, s := range sections {
		if s.name == "" {
			return nil, errors.Load("message definition section without MSG: header", nil)
		}
		rec := Record{}
		for n, line := range s.lines {
			f, ok, err := parseROSLine(line)
			if err != nil {
				return nil, errors.Load(s.name+" line "+strconv.Itoa(n+1), err)
			}
			if !ok {
				continue
			}
			f.Type = resolveROSType(f.Type, s.name, defined)
			rec.Fields = append(rec.Fields, f)
		}
		m[s.name] = rec
	}

	m = AddTimeTypes(m)
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

func parseROSLine(line string) (Field, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Field{}, false, nil
	}

	typ, rest, ok := strings.Cut(trimmed, " ")
	if !ok {
		return Field{}, false, errors.InvalidData(errors.PhaseLoad, nil, "malformed line "+strconv.Quote(trimmed))
	}
	rest = strings.TrimSpace(rest)

	f := Field{Type: typ}
	if open := strings.IndexByte(typ, '['); open >= 0 {
		if !strings.HasSuffix(typ, "]") {
			return Field{}, false, errors.InvalidData(errors.PhaseLoad, nil, "malformed array type "+typ)
		}
		f.Type = typ[:open]
		f.IsArray = true
		if n := typ[open+1 : len(typ)-1]; n != "" {
			length, err := strconv.Atoi(n)
			if err != nil {
				return Field{}, false, errors.InvalidData(errors.PhaseLoad, nil, "bad array length "+n)
			}
			f.ArrayLength = &length
		}
	}

	if name, value, isConst := strings.Cut(rest, "="); isConst && !f.IsArray {
		f.Name = strings.TrimSpace(name)
		f.IsConstant = true
		if f.Type == String {
			f.Value = strings.TrimSpace(value)
		} else {
			value, _, _ = strings.Cut(value, "#")
			v, err := parseROSConstant(f.Type, strings.TrimSpace(value))
			if err != nil {
				return Field{}, false, err
			}
			f.Value = v
		}
		return f, true, nil
	}

	name, _, _ := strings.Cut(rest, "#")
	f.Name = strings.TrimSpace(name)
	return f, true, nil
}

func parseROSConstant(typ, value string) (any, error) {
	switch Canonical(typ) {
	case Bool:
		return value == "True" || value == "true" || value == "1", nil
	case Float32, Float64:
		return strconv.ParseFloat(value, 64)
	case Uint64:
		return strconv.ParseUint(value, 10, 64)
	case Int64:
		return strconv.ParseInt(value, 10, 64)
	default:
		n, err := strconv.ParseInt(value, 10, 64)
		return int(n), err
	}
}

func resolveROSType(typ, owner string, defined map[string]bool) string {
	if IsPrimitive(typ) || typ == Time || typ == Duration || strings.Contains(typ, "/") {
		return typ
	}
	if typ == "Header" {
		return "std_msgs/Header"
	}
	if pkg, _, ok := strings.Cut(owner, "/"); ok && defined[pkg+"/"+typ] {
		return pkg + "/" + typ
	}
	for _, name := range slices.Sorted(maps.Keys(defined)) {
		if strings.HasSuffix(name, "/"+typ) {
			return name
		}
	}
	return typ
}
