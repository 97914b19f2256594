package cpu

import (
	"fmt"

	"vsi16/internal/debug"
)

// CPULogLevel is a granularity knob for CPU instruction logging,
// independent of the debug.Logger's own LogLevel filter.
type CPULogLevel int

const (
	CPULogNone CPULogLevel = iota
	CPULogBranches
	CPULogInstructions
	CPULogTrace
)

// CPULoggerAdapter bridges the CPU's LoggerInterface to a
// debug.Logger, recovering the original interpreter's
// printf-per-instruction trace as a gated, structured log line.
type CPULoggerAdapter struct {
	logger *debug.Logger
	level  CPULogLevel
}

// NewCPULoggerAdapter creates a CPU logger adapter at the given
// granularity.
func NewCPULoggerAdapter(logger *debug.Logger, level CPULogLevel) *CPULoggerAdapter {
	return &CPULoggerAdapter{logger: logger, level: level}
}

// SetLevel changes the logging granularity.
func (a *CPULoggerAdapter) SetLevel(level CPULogLevel) {
	a.level = level
}

// LogCPU implements cpu.LoggerInterface.
func (a *CPULoggerAdapter) LogCPU(instruction uint16, state CPUState) {
	if a.logger == nil || a.level == CPULogNone {
		return
	}

	isBranch := instruction&0x4000 != 0 && instruction&0x8000 == 0

	switch a.level {
	case CPULogBranches:
		if !isBranch {
			return
		}
		a.logger.LogCPU(debug.LogLevelInfo, a.formatInstruction(instruction, state), nil)
	case CPULogInstructions:
		a.logger.LogCPU(debug.LogLevelDebug, a.formatInstruction(instruction, state), nil)
	case CPULogTrace:
		a.logger.LogCPU(debug.LogLevelTrace, a.formatInstruction(instruction, state), a.stateData(state))
	}
}

func (a *CPULoggerAdapter) formatInstruction(instruction uint16, state CPUState) string {
	class := "arith"
	switch {
	case instruction&0x8000 != 0:
		class = "arith"
	case instruction&0x4000 != 0:
		class = "jump"
	case instruction&0x2000 != 0:
		class = "ldst"
	case instruction&0x1000 == 0:
		class = "misc"
	default:
		class = "illegal"
	}
	return fmt.Sprintf("%s 0x%04X @ pc=%04X", class, instruction, state.Regs[RegPC])
}

func (a *CPULoggerAdapter) stateData(state CPUState) map[string]interface{} {
	return map[string]interface{}{
		"pc":    state.Regs[RegPC],
		"sp":    state.Regs[RegSP],
		"flags": fmt.Sprintf("%07b", state.Flags),
	}
}
