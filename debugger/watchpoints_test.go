package debugger

import (
	"fmt"
	"testing"
)

func fakeRegisters(values map[string]uint32) RegisterReader {
	return func(name string) (uint32, error) {
		v, ok := values[name]
		if !ok {
			return 0, fmt.Errorf("no such register %q", name)
		}
		return v, nil
	}
}

func TestWatchpointManagerDetectsChange(t *testing.T) {
	wm := NewWatchpointManager()
	wp := wm.AddWatchpoint(WatchReadWrite, "AR")

	values := map[string]uint32{"AR": 0}
	read := fakeRegisters(values)

	if err := wm.InitializeWatchpoint(wp.ID, read); err != nil {
		t.Fatalf("InitializeWatchpoint: %v", err)
	}
	if _, changed := wm.CheckWatchpoints(read); changed {
		t.Error("expected no change before the register is modified")
	}

	values["AR"] = 42
	hit, changed := wm.CheckWatchpoints(read)
	if !changed || hit == nil {
		t.Fatal("expected a change to be detected")
	}
	if hit.Register != "AR" || hit.HitCount != 1 {
		t.Errorf("unexpected watchpoint state: %+v", hit)
	}
}

func TestWatchpointManagerDisabledSkipped(t *testing.T) {
	wm := NewWatchpointManager()
	wp := wm.AddWatchpoint(WatchReadWrite, "L")
	_ = wm.DisableWatchpoint(wp.ID)

	values := map[string]uint32{"L": 5}
	read := fakeRegisters(values)
	_ = wm.InitializeWatchpoint(wp.ID, read)
	values["L"] = 6

	if _, changed := wm.CheckWatchpoints(read); changed {
		t.Error("disabled watchpoint should not trigger")
	}
}

func TestEvalConditionOperators(t *testing.T) {
	read := fakeRegisters(map[string]uint32{"AR": 10, "L": 54})

	cases := []struct {
		cond string
		want bool
	}{
		{"", true},
		{"AR==10", true},
		{"AR==0x0A", true},
		{"AR!=10", false},
		{"L>=54", true},
		{"L<54", false},
		{"L<=54", true},
		{"AR>5", true},
	}
	for _, c := range cases {
		got, err := evalCondition(c.cond, read)
		if err != nil {
			t.Fatalf("evalCondition(%q): %v", c.cond, err)
		}
		if got != c.want {
			t.Errorf("evalCondition(%q) = %v, want %v", c.cond, got, c.want)
		}
	}
}
