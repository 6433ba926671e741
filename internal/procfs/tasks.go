package procfs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Task is the subset of /proc/self/task/<tid>/status this agent exposes.
type Task struct {
	Pid    int
	Name   string
	State  string // single-letter state code, e.g. "S", "R"
	FDSize int
}

// Tasks enumerates the host process's own threads via /proc/self/task.
// Any individual task directory that disappears mid-scan (the kernel may
// reap a short-lived thread between readdir and read) or whose status file
// cannot be parsed is skipped rather than failing the whole call; the
// caller is responsible for warning about skipped tasks, matching spec.md's
// "each unreadable task is skipped with a warning".
func Tasks() ([]Task, []error) {
	entries, err := os.ReadDir("/proc/self/task")
	if err != nil {
		return nil, []error{fmt.Errorf("read /proc/self/task: %w", err)}
	}

	var tasks []Task
	var warnings []error
	for _, e := range entries {
		tid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		task, err := readTaskStatus(tid)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, warnings
}

func readTaskStatus(tid int) (Task, error) {
	path := filepath.Join("/proc/self/task", strconv.Itoa(tid), "status")
	f, err := os.Open(path)
	if err != nil {
		return Task{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	task := Task{Pid: tid}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Name":
			task.Name = value
		case "State":
			// e.g. "S (sleeping)" -> "S"
			if len(value) > 0 {
				task.State = value[:1]
			}
		case "FDSize":
			n, _ := strconv.Atoi(value)
			task.FDSize = n
		}
	}
	if err := sc.Err(); err != nil {
		return Task{}, fmt.Errorf("scan %s: %w", path, err)
	}
	return task, nil
}
