package debugger

import "testing"

func TestBreakpointManagerAddBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	loc := PackLoc(2, 54)

	bp := bm.AddBreakpoint(loc, false, "")
	if bp == nil {
		t.Fatal("AddBreakpoint returned nil")
	}
	if bp.ID != 1 {
		t.Errorf("expected ID 1, got %d", bp.ID)
	}
	if bp.Address != loc {
		t.Errorf("expected address %#x, got %#x", loc, bp.Address)
	}
	if !bp.Enabled {
		t.Error("breakpoint should be enabled by default")
	}
}

func TestBreakpointManagerAddDuplicateUpdatesExisting(t *testing.T) {
	bm := NewBreakpointManager()
	loc := PackLoc(0, 10)

	bp1 := bm.AddBreakpoint(loc, false, "")
	bp2 := bm.AddBreakpoint(loc, true, "AR==0")

	if bp1.ID != bp2.ID {
		t.Error("duplicate location should update the existing breakpoint")
	}
	if !bp2.Temporary {
		t.Error("expected updated breakpoint to be temporary")
	}
}

func TestBreakpointManagerDeleteAndEnable(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(PackLoc(1, 0), false, "")

	if err := bm.DisableBreakpoint(bp.ID); err != nil {
		t.Fatalf("DisableBreakpoint: %v", err)
	}
	if bm.GetBreakpointByID(bp.ID).Enabled {
		t.Error("breakpoint should be disabled")
	}

	if err := bm.EnableBreakpoint(bp.ID); err != nil {
		t.Fatalf("EnableBreakpoint: %v", err)
	}
	if !bm.GetBreakpointByID(bp.ID).Enabled {
		t.Error("breakpoint should be re-enabled")
	}

	if err := bm.DeleteBreakpoint(bp.ID); err != nil {
		t.Fatalf("DeleteBreakpoint: %v", err)
	}
	if bm.Count() != 0 {
		t.Errorf("expected 0 breakpoints after delete, got %d", bm.Count())
	}
}

func TestBreakpointManagerProcessHitDeletesTemporary(t *testing.T) {
	bm := NewBreakpointManager()
	loc := PackLoc(3, 20)
	bm.AddBreakpoint(loc, true, "")

	hit := bm.ProcessHit(loc)
	if hit == nil || hit.HitCount != 1 {
		t.Fatalf("expected one hit, got %+v", hit)
	}
	if bm.HasBreakpoint(loc) {
		t.Error("temporary breakpoint should be removed after its hit")
	}
}
