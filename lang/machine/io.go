package machine

import (
	"strconv"
	"strings"
)

// writeText renders v the way WRITE and DPRINT print it: a value's natural
// String form, except Nil prints as the empty string rather than "nil".
func writeText(v Value) string {
	if _, ok := v.(NilType); ok {
		return ""
	}
	return v.String()
}

// readValue parses one line of --input/stdin text into the type named by
// want ("int", "float", "bool", or "string"). Any parse failure, including
// an unrecognized type name, yields Nil, matching READ's documented failure
// behavior: a bad read never aborts the program.
func readValue(line, want string) Value {
	switch want {
	case "int":
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return Nil
		}
		return Int(n)
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			return Nil
		}
		return Float(f)
	case "bool":
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "true":
			return True
		case "false":
			return False
		default:
			return Nil
		}
	case "string":
		return NewStr(line)
	default:
		return Nil
	}
}
