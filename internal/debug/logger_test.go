package debug

import "testing"

func TestComponentDisabledByDefault(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	if l.IsComponentEnabled(ComponentCPU) {
		t.Error("ComponentCPU should be disabled by default")
	}
	l.SetComponentEnabled(ComponentCPU, true)
	if !l.IsComponentEnabled(ComponentCPU) {
		t.Error("ComponentCPU should be enabled after SetComponentEnabled(true)")
	}
}

func TestLogDroppedWhenComponentDisabled(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	l.LogMemory(LogLevelWarning, "write to ROM region ignored", nil)
	if got := len(l.GetEntries()); got != 0 {
		t.Errorf("expected 0 entries with ComponentMemory disabled, got %d", got)
	}
}

func TestClearResetsEntries(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	// addEntry writes the buffer directly, so this does not depend on
	// the drain goroutine's timing.
	l.addEntry(LogEntry{Component: ComponentSystem, Level: LogLevelInfo, Message: "before clear"})
	if got := len(l.GetEntries()); got != 1 {
		t.Fatalf("expected 1 entry before Clear, got %d", got)
	}

	l.Clear()
	if got := len(l.GetEntries()); got != 0 {
		t.Errorf("expected 0 entries after Clear, got %d", got)
	}
}
