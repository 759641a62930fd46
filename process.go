package main

import (
	"fmt"
	"log"

	"github.com/shirou/gopsutil/v4/process"
)

// terminateProcessesByName sends SIGTERM to every process whose executable
// name matches exactly, and reports how many were signalled. Zero matches is
// a normal outcome, not an error.
func terminateProcessesByName(name string) (int, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}
	count := 0
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil || pname != name {
			continue
		}
		if err := p.Terminate(); err != nil {
			log.Printf("terminate pid %d: %v", p.Pid, err)
			continue
		}
		count++
	}
	return count, nil
}
