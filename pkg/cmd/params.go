package cmd

import (
	"strconv"
)

// ParamType is the target type a raw token is coerced to.
type ParamType int

const (
	// Int parses a base-10 signed integer.
	Int ParamType = iota
	// String passes exactly one token through verbatim.
	String
)

func (t ParamType) String() string {
	switch t {
	case Int:
		return "integer"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Param declares one positional parameter of a command.
type Param struct {
	Name     string
	Type     ParamType
	Required bool
}

// Coerce converts raw tokens into typed arguments following params in order.
// Extra tokens beyond the schema are ignored. The first failure stops
// coercion and is returned as *BadArgumentError or *MissingArgumentError.
func Coerce(params []Param, tokens []string) (Args, error) {
	args := make(Args, len(params))
	for i, p := range params {
		if i >= len(tokens) {
			if p.Required {
				return nil, &MissingArgumentError{Param: p.Name}
			}
			continue
		}

		raw := tokens[i]
		switch p.Type {
		case Int:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, &BadArgumentError{Param: p.Name, Type: p.Type, Token: raw}
			}
			args[p.Name] = n
		default:
			args[p.Name] = raw
		}
	}
	return args, nil
}
