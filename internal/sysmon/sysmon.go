// Package sysmon samples system-wide and process resource usage.
package sysmon

import (
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	MemTotal   uint64  // bytes of physical memory
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemTotal = vmem.Total
	}
	return s
}

// ProcessStats is the resident footprint of one process, as the OS sees it.
type ProcessStats struct {
	RSS        uint64
	VMS        uint64
	CPUPercent float64
}

// ProcessSampler reads ProcessStats for a fixed process.
type ProcessSampler struct {
	proc *process.Process
}

// NewProcessSampler samples the current process.
func NewProcessSampler() (*ProcessSampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessSampler{proc: p}, nil
}

// Sample returns the process footprint. Fields that cannot be read stay zero.
func (ps *ProcessSampler) Sample() ProcessStats {
	var s ProcessStats
	if ps == nil || ps.proc == nil {
		return s
	}
	if mi, err := ps.proc.MemoryInfo(); err == nil && mi != nil {
		s.RSS = mi.RSS
		s.VMS = mi.VMS
	}
	if pct, err := ps.proc.CPUPercent(); err == nil {
		s.CPUPercent = pct
	}
	return s
}
