package script

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestPrettyNil(t *testing.T) {
	if got := Pretty(lua.LNil); got != "nil" {
		t.Fatalf("Pretty(nil) = %q, want nil", got)
	}
}

func TestPrettyBool(t *testing.T) {
	if got := Pretty(lua.LTrue); got != "true" {
		t.Fatalf("Pretty(true) = %q", got)
	}
	if got := Pretty(lua.LFalse); got != "false" {
		t.Fatalf("Pretty(false) = %q", got)
	}
}

func TestPrettyIntegerNumber(t *testing.T) {
	if got := Pretty(lua.LNumber(42)); got != "42" {
		t.Fatalf("Pretty(42) = %q, want 42", got)
	}
}

func TestPrettyFractionalNumber(t *testing.T) {
	if got := Pretty(lua.LNumber(3.14159)); got != "3.142" {
		t.Fatalf("Pretty(3.14159) = %q, want 3 decimal places", got)
	}
}

func TestPrettyString(t *testing.T) {
	if got := Pretty(lua.LString("hi")); got != "hi" {
		t.Fatalf("Pretty(%q) = %q, want unquoted", "hi", got)
	}
}

func TestPrettyTypeIntegerVsNumber(t *testing.T) {
	if got := PrettyType(lua.LNumber(2)); got != "integer" {
		t.Fatalf("PrettyType(2) = %q, want integer", got)
	}
	if got := PrettyType(lua.LNumber(3.5)); got != "number" {
		t.Fatalf("PrettyType(3.5) = %q, want number", got)
	}
}

func TestPrettyArrayTableAsJSON(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	tbl := L.NewTable()
	tbl.Append(lua.LNumber(1))
	tbl.Append(lua.LNumber(2))
	if got := Pretty(tbl); got != "[1,2]" {
		t.Fatalf("Pretty(array table) = %q, want [1,2]", got)
	}
}

func TestPrettyFunction(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	fn := L.NewFunction(func(L *lua.LState) int { return 0 })
	got := Pretty(fn)
	if !strings.HasPrefix(got, "Function(") {
		t.Fatalf("Pretty(function) = %q, want Function(...) handle", got)
	}
}
