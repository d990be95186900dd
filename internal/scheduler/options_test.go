package scheduler

import "testing"

func TestDefaultSolverOptionsScalesTimeBudgetWithClassSize(t *testing.T) {
	small := DefaultSolverOptions(5)
	if small.MaxTimeMs != 8000 {
		t.Errorf("expected 8000ms for a small studio, got %d", small.MaxTimeMs)
	}

	medium := DefaultSolverOptions(35)
	if medium.MaxTimeMs != 15000 {
		t.Errorf("expected 15000ms for a medium studio, got %d", medium.MaxTimeMs)
	}

	large := DefaultSolverOptions(100)
	if large.MaxTimeMs != 45000 {
		t.Errorf("expected 45000ms for a large studio, got %d", large.MaxTimeMs)
	}
}

func TestDefaultSolverOptionsBacktrackFloor(t *testing.T) {
	opts := DefaultSolverOptions(0)
	if opts.MaxBacktracks != 100 {
		t.Errorf("expected a 100-backtrack floor for zero students, got %d", opts.MaxBacktracks)
	}

	opts = DefaultSolverOptions(10)
	if opts.MaxBacktracks != 1000 {
		t.Errorf("expected 100*10=1000 backtracks, got %d", opts.MaxBacktracks)
	}
}
