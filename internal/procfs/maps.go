// Package procfs reads /proc/self for the own-process introspection
// builtins (procmaps, threads). Parsing follows the field layout documented
// in proc(5); there is no canonical third-party Go client for these two
// files in the dependency pool available to this project, so this package
// parses the text format directly with bufio.Scanner, the same way other
// small /proc readers in the wider Go ecosystem do it.
package procfs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mapping is one line of /proc/self/maps.
type Mapping struct {
	Perms   string
	Address uintptr // start address
	End     uintptr
	Offset  uint64
	Path    string
	Inode   uint64
}

// Size returns End-Address.
func (m Mapping) Size() uintptr { return m.End - m.Address }

// Maps parses /proc/self/maps.
//
// Each line looks like:
//
//	00400000-00452000 r-xp 00000000 08:02 173521 /usr/bin/dbus-daemon
func Maps() ([]Mapping, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, fmt.Errorf("open /proc/self/maps: %w", err)
	}
	defer f.Close()

	var out []Mapping
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m, ok := parseMapLine(sc.Text())
		if !ok {
			continue
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan /proc/self/maps: %w", err)
	}
	return out, nil
}

func parseMapLine(line string) (Mapping, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Mapping{}, false
	}

	addrRange := strings.SplitN(fields[0], "-", 2)
	if len(addrRange) != 2 {
		return Mapping{}, false
	}
	start, err := strconv.ParseUint(addrRange[0], 16, 64)
	if err != nil {
		return Mapping{}, false
	}
	end, err := strconv.ParseUint(addrRange[1], 16, 64)
	if err != nil {
		return Mapping{}, false
	}

	offset, err := strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		return Mapping{}, false
	}

	inode, _ := strconv.ParseUint(fields[4], 10, 64)

	path := ""
	if len(fields) >= 6 {
		path = strings.Join(fields[5:], " ")
	}

	return Mapping{
		Perms:   fields[1],
		Address: uintptr(start),
		End:     uintptr(end),
		Offset:  offset,
		Path:    path,
		Inode:   inode,
	}, true
}
