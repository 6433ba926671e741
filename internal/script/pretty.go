package script

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Pretty renders a Lua value the way the REPL echoes evaluation results:
// numbers that are mathematically integers print without a decimal point,
// everything else prints to three decimal places; strings print as their
// raw UTF-8 bytes, unquoted; tables are rendered as JSON when every value
// in them marshals cleanly, falling back to a debug listing of key/value
// pairs otherwise; functions, threads, and userdata print as an opaque
// handle tagged with their kind.
func Pretty(v lua.LValue) string {
	switch val := v.(type) {
	case *lua.LNilType:
		return "nil"
	case lua.LBool:
		if bool(val) {
			return "true"
		}
		return "false"
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', 3, 64)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		return prettyTable(val)
	case *lua.LFunction:
		return fmt.Sprintf("Function(%p)", val)
	case *lua.LUserData:
		return fmt.Sprintf("UserData(%p)", val)
	case *lua.LState:
		return fmt.Sprintf("Thread(%p)", val)
	default:
		return fmt.Sprintf("<%s>", v.Type().String())
	}
}

// PrettyType returns the type name shown alongside a pretty-printed value,
// e.g. the "integer" in "=(integer) 2". Lua numbers are not distinguished
// between integer and float internally, but the REPL reports integer-valued
// results as "integer" and everything else as "number", matching how they
// are pretty-printed (decimal vs. 3-decimal fixed).
func PrettyType(v lua.LValue) string {
	if n, ok := v.(lua.LNumber); ok {
		f := float64(n)
		if f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return "integer"
		}
		return "number"
	}
	return v.Type().String()
}

func prettyTable(t *lua.LTable) string {
	asJSON, ok := tryJSONTable(t)
	if ok {
		return asJSON
	}
	return debugTable(t)
}

// tryJSONTable attempts to render the table as JSON, succeeding only when
// every value it contains is itself JSON-representable (nil/bool/number/
// string/nested table). Any function, userdata, or thread value bails out
// to the debug rendering.
func tryJSONTable(t *lua.LTable) (string, bool) {
	val, ok := luaTableToJSONValue(t)
	if !ok {
		return "", false
	}
	b, err := json.Marshal(val)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func luaTableToJSONValue(t *lua.LTable) (any, bool) {
	isArray := true
	n := t.Len()
	count := 0
	t.ForEach(func(k, v lua.LValue) {
		count++
		if _, isNum := k.(lua.LNumber); !isNum {
			isArray = false
		}
	})
	if isArray && count == n && n > 0 {
		arr := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			jv, ok := luaValueToJSONValue(t.RawGetInt(i))
			if !ok {
				return nil, false
			}
			arr = append(arr, jv)
		}
		return arr, true
	}

	obj := make(map[string]any, count)
	ok := true
	t.ForEach(func(k, v lua.LValue) {
		if !ok {
			return
		}
		jv, valOK := luaValueToJSONValue(v)
		if !valOK {
			ok = false
			return
		}
		obj[k.String()] = jv
	})
	if !ok {
		return nil, false
	}
	return obj, true
}

func luaValueToJSONValue(v lua.LValue) (any, bool) {
	switch val := v.(type) {
	case *lua.LNilType:
		return nil, true
	case lua.LBool:
		return bool(val), true
	case lua.LNumber:
		return float64(val), true
	case lua.LString:
		return string(val), true
	case *lua.LTable:
		return luaTableToJSONValue(val)
	default:
		return nil, false
	}
}

func debugTable(t *lua.LTable) string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	t.ForEach(func(k, v lua.LValue) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s = %s", k.String(), Pretty(v))
	})
	b.WriteString("}")
	return b.String()
}
