package script

import (
	"testing"

	"github.com/behrlich/luatap/internal/broadcast"
	lua "github.com/yuin/gopher-lua"
)

func newTestState(t *testing.T) (*lua.LState, *broadcast.Bus) {
	t.Helper()
	bus := broadcast.NewBus(8)
	rt := New(NewConsole(bus))
	L := rt.NewState()
	t.Cleanup(L.Close)
	return L, bus
}

func mustEval(t *testing.T, L *lua.LState, src string) lua.LValue {
	t.Helper()
	if err := L.DoString(src); err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return L.Get(-1)
}

func TestHexBuiltinDefaultPrefix(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return x(255)")
	if got := lua.LVAsString(v); got != "0xFF" {
		t.Fatalf("x(255) = %q, want 0xFF", got)
	}
}

func TestHexBuiltinNoPrefix(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return x(255, false)")
	if got := lua.LVAsString(v); got != "FF" {
		t.Fatalf("x(255, false) = %q, want FF", got)
	}
}

func TestHexBuiltinRecursesIntoTables(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return x({255, 16})")
	if got := lua.LVAsString(v); got != "0xFF10" {
		t.Fatalf("x({255,16}) = %q, want 0xFF10 (elements concatenated, no per-element prefix)", got)
	}
}

func TestHexBuiltinRejectsFloat(t *testing.T) {
	L, _ := newTestState(t)
	if err := L.DoString("return x(1.5)"); err == nil {
		t.Fatal("expected x(1.5) to raise a runtime error")
	}
}

func TestBytesBuiltin(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, `return b("AB")`)
	if got := lua.LVAsString(v); got != "AB" {
		t.Fatalf("b(\"AB\") = %q, want raw bytes \"AB\"", got)
	}
}

func TestBytesBuiltinSignificantLittleEndian(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return b(256)")
	got := []byte(lua.LVAsString(v))
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("b(256) = %v, want [0x00, 0x01]", got)
	}
}

func TestBytesBuiltinNilIsEmpty(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return b(nil)")
	if got := lua.LVAsString(v); got != "" {
		t.Fatalf("b(nil) = %q, want empty", got)
	}
}

func TestBytesBuiltinZeroIsEmpty(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return b(0)")
	if got := lua.LVAsString(v); got != "" {
		t.Fatalf("b(0) = %q, want empty", got)
	}
}

func TestDecompAcceptsTableOfBytes(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return decomp({0x90, 0x90, 0xC3}, true)")
	tbl, ok := v.(*lua.LTable)
	if !ok {
		t.Fatalf("decomp(...) = %T, want table", v)
	}
	if tbl.Len() != 3 {
		t.Fatalf("decomp({0x90,0x90,0xC3}) decoded %d instructions, want 3", tbl.Len())
	}
}

func TestFindAcceptsTableOfBytes(t *testing.T) {
	L, _ := newTestState(t)
	if L.GetGlobal("find").Type() != lua.LTFunction {
		t.Fatal("find should be registered as a function")
	}
	// find scans real process memory; exercising the table-argument parsing
	// path without faulting just checks the call is accepted and returns a
	// table, not that it finds anything.
	v := mustEval(t, L, "return find(0, 0, {0xDE, 0xAD})")
	if _, ok := v.(*lua.LTable); !ok {
		t.Fatalf("find(...) = %T, want table", v)
	}
}

func TestReadWriteAreRegistered(t *testing.T) {
	L, _ := newTestState(t)
	mustEval(t, L, `
		buf = string.rep("\0", 8)
	`)
	// read/write operate on raw process memory; exercising them against an
	// arbitrary Lua string's backing array isn't meaningful from script
	// level, so this only checks the functions are callable and wired.
	if L.GetGlobal("read").Type() != lua.LTFunction {
		t.Fatal("read should be registered as a function")
	}
	if L.GetGlobal("write").Type() != lua.LTFunction {
		t.Fatal("write should be registered as a function")
	}
}

func TestLogPublishesToConsole(t *testing.T) {
	L, bus := newTestState(t)
	handle := bus.Subscribe()
	defer handle.Unsubscribe()

	v := mustEval(t, L, `return log("hello", 42)`)

	msg, ok := handle.Recv()
	if !ok {
		t.Fatal("expected a published message")
	}
	if msg != "hello 42\n" {
		t.Fatalf("unexpected log output: %q", msg)
	}
	n, ok := v.(lua.LNumber)
	if !ok || int(n) != len(msg) {
		t.Fatalf("log() should return bytes written (%d), got %v", len(msg), v)
	}
}

func TestHelpPublishesHelpText(t *testing.T) {
	L, bus := newTestState(t)
	handle := bus.Subscribe()
	defer handle.Unsubscribe()

	v := mustEval(t, L, `return help()`)
	if v != lua.LNil {
		t.Fatalf("help() should return nil, got %v", v)
	}
	msg, ok := handle.Recv()
	if !ok {
		t.Fatal("expected help text to be published")
	}
	if msg == "" {
		t.Fatal("expected non-empty help text")
	}
}

func TestSigsegvToggle(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return sigsegv()")
	if v.Type() != lua.LTBool {
		t.Fatalf("sigsegv() should return a boolean, got %s", v.Type())
	}
	v = mustEval(t, L, "return sigsegv(true)")
	if lua.LVAsBool(v) != true {
		t.Fatal("sigsegv(true) should return true")
	}
	v = mustEval(t, L, "return sigsegv(false)")
	if lua.LVAsBool(v) != false {
		t.Fatal("sigsegv(false) should return false")
	}
}

func TestProcmapsReturnsRecords(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return procmaps(true)")
	tbl, ok := v.(*lua.LTable)
	if !ok || tbl.Len() == 0 {
		t.Fatalf("expected a non-empty array of records, got %v", v)
	}
	rec, ok := tbl.RawGetInt(1).(*lua.LTable)
	if !ok {
		t.Fatalf("expected record table, got %v", tbl.RawGetInt(1))
	}
	for _, field := range []string{"perms", "address", "offset", "size", "path"} {
		if rec.RawGetString(field) == lua.LNil {
			t.Fatalf("record missing field %q", field)
		}
	}
}

func TestProcmapsPublishesCountWhenNotRet(t *testing.T) {
	L, bus := newTestState(t)
	handle := bus.Subscribe()
	defer handle.Unsubscribe()

	v := mustEval(t, L, "return procmaps()")
	n, ok := v.(lua.LNumber)
	if !ok || int(n) <= 0 {
		t.Fatalf("expected positive map count, got %v", v)
	}
	if _, ok := handle.Recv(); !ok {
		t.Fatal("expected a published listing")
	}
}

func TestThreadsReturnsRecords(t *testing.T) {
	L, _ := newTestState(t)
	v := mustEval(t, L, "return threads(true)")
	tbl, ok := v.(*lua.LTable)
	if !ok || tbl.Len() == 0 {
		t.Fatalf("expected a non-empty array of records, got %v", v)
	}
	rec, ok := tbl.RawGetInt(1).(*lua.LTable)
	if !ok {
		t.Fatalf("expected record table, got %v", tbl.RawGetInt(1))
	}
	for _, field := range []string{"pid", "name", "state", "fdsize"} {
		if rec.RawGetString(field) == lua.LNil {
			t.Fatalf("record missing field %q", field)
		}
	}
}
