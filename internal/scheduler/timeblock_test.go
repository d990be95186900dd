package scheduler

import "testing"

func TestMergeBlocksCoalescesOverlapsAndAdjacency(t *testing.T) {
	in := []TimeBlock{
		{Start: 600, Duration: 60},  // 600-660
		{Start: 660, Duration: 30},  // adjacent: 660-690
		{Start: 700, Duration: 20},  // disjoint: 10-minute gap after 690
		{Start: 540, Duration: 50},  // disjoint, earlier
	}
	merged := MergeBlocks(in)

	if len(merged) != 3 {
		t.Fatalf("expected 3 merged blocks, got %d: %+v", len(merged), merged)
	}
	if merged[0].Start != 540 || merged[0].End() != 590 {
		t.Errorf("unexpected first block: %+v", merged[0])
	}
	if merged[1].Start != 600 || merged[1].End() != 690 {
		t.Errorf("unexpected second block: %+v", merged[1])
	}
	if merged[2].Start != 700 || merged[2].End() != 720 {
		t.Errorf("unexpected third block: %+v", merged[2])
	}
}

func TestMergeBlocksIdempotent(t *testing.T) {
	in := []TimeBlock{{Start: 100, Duration: 30}, {Start: 120, Duration: 40}}
	once := MergeBlocks(in)
	twice := MergeBlocks(once)

	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: %+v vs %+v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("merge not idempotent at %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestFindAvailableSlotsRespectsGranularityAndDuration(t *testing.T) {
	day := DaySchedule{DayOfWeek: 1, Blocks: []TimeBlock{{Start: 540, Duration: 90}}}
	slots := FindAvailableSlots(day, 60, 15)

	if len(slots) == 0 {
		t.Fatal("expected at least one candidate slot")
	}
	for _, s := range slots {
		if s.Start < 540 || s.End() > 630 {
			t.Errorf("slot %+v outside block bounds", s)
		}
		if (s.Start-540)%15 != 0 {
			t.Errorf("slot %+v not aligned to 15-minute granularity", s)
		}
	}
}

func TestIsTimeAvailable(t *testing.T) {
	day := DaySchedule{DayOfWeek: 1, Blocks: []TimeBlock{{Start: 600, Duration: 60}}}

	if !IsTimeAvailable(day, 600, 60) {
		t.Error("expected exact-fit interval to be available")
	}
	if IsTimeAvailable(day, 601, 60) {
		t.Error("expected interval extending past the block to be unavailable")
	}
	if IsTimeAvailable(day, 599, 60) {
		t.Error("expected interval starting before the block to be unavailable")
	}
}

func TestTimeStringRoundTrip(t *testing.T) {
	for minutes := 0; minutes < MinutesPerDay; minutes += 37 {
		s, err := MinutesToString(minutes)
		if err != nil {
			t.Fatalf("MinutesToString(%d): %v", minutes, err)
		}
		back, err := StringToMinutes(s)
		if err != nil {
			t.Fatalf("StringToMinutes(%q): %v", s, err)
		}
		if back != minutes {
			t.Errorf("round trip mismatch: %d -> %q -> %d", minutes, s, back)
		}
	}

	cases := []string{"00:00", "09:05", "13:45", "23:59"}
	for _, s := range cases {
		minutes, err := StringToMinutes(s)
		if err != nil {
			t.Fatalf("StringToMinutes(%q): %v", s, err)
		}
		back, err := MinutesToString(minutes)
		if err != nil {
			t.Fatalf("MinutesToString(%d): %v", minutes, err)
		}
		if back != s {
			t.Errorf("round trip mismatch: %q -> %d -> %q", s, minutes, back)
		}
	}
}

func TestNewTimeBlockValidation(t *testing.T) {
	if _, err := NewTimeBlock(-1, 30); err == nil {
		t.Error("expected error for negative start")
	}
	if _, err := NewTimeBlock(0, 0); err == nil {
		t.Error("expected error for non-positive duration")
	}
	if _, err := NewTimeBlock(1430, 20); err == nil {
		t.Error("expected error for block crossing midnight")
	}
	b, err := NewTimeBlock(600, 60);
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.End() != 660 {
		t.Errorf("expected end 660, got %d", b.End())
	}
}
