package procfs

import (
	"strings"
	"testing"
)

func TestParseMapLine(t *testing.T) {
	line := "00400000-00452000 r-xp 00000000 08:02 173521 /usr/bin/dbus-daemon"
	m, ok := parseMapLine(line)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if m.Perms != "r-xp" {
		t.Fatalf("expected perms r-xp, got %s", m.Perms)
	}
	if m.Address != 0x00400000 || m.End != 0x00452000 {
		t.Fatalf("unexpected range: %x..%x", m.Address, m.End)
	}
	if m.Size() != 0x52000 {
		t.Fatalf("unexpected size: %x", m.Size())
	}
	if m.Path != "/usr/bin/dbus-daemon" {
		t.Fatalf("unexpected path: %q", m.Path)
	}
	if m.Inode != 173521 {
		t.Fatalf("unexpected inode: %d", m.Inode)
	}
}

func TestParseMapLineAnonymous(t *testing.T) {
	line := "7f1234500000-7f1234521000 rw-p 00000000 00:00 0 "
	m, ok := parseMapLine(line)
	if !ok {
		t.Fatal("expected anonymous mapping to parse")
	}
	if m.Path != "" {
		t.Fatalf("expected empty path for anonymous mapping, got %q", m.Path)
	}
	if m.Inode != 0 {
		t.Fatalf("expected inode 0, got %d", m.Inode)
	}
}

func TestMapsOnLiveProcessIsNonEmpty(t *testing.T) {
	maps, err := Maps()
	if err != nil {
		t.Fatalf("unexpected error reading own maps: %v", err)
	}
	if len(maps) == 0 {
		t.Fatal("expected at least one mapping for the running test process")
	}

	found := false
	for _, m := range maps {
		if strings.Contains(m.Perms, "r") && strings.Contains(m.Perms, "w") {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one rw mapping (the stack) in own process maps")
	}
}

func TestTasksOnLiveProcessIsNonEmpty(t *testing.T) {
	tasks, warnings := Tasks()
	if len(tasks) == 0 {
		t.Fatalf("expected at least one task, warnings=%v", warnings)
	}
	for _, tk := range tasks {
		if tk.Pid == 0 {
			t.Fatalf("expected non-zero pid in task %+v", tk)
		}
	}
}
