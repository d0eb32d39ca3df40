package spawn

import (
	"errors"
	"testing"

	"github.com/Faultbox/voxelchunk/internal/engine/camera"
	"github.com/Faultbox/voxelchunk/internal/spatial"
	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

type registrar struct{ n int }

func (r *registrar) AddVisibleTarget(camera.Target) { r.n++ }

func newIndex(t *testing.T) spatial.Index[*Object] {
	t.Helper()
	idx, err := spatial.NewPointOctree[*Object](15, vm.Vec3{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestNewSpawnsInitialBatch(t *testing.T) {
	cam := &registrar{}
	idx := newIndex(t)
	s, err := New(DefaultConfig(), NewRand(0), idx, cam, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count() != 4 || idx.Count() != 4 || cam.n != 4 {
		t.Errorf("expected 4 spawned, indexed and registered, got %d/%d/%d", s.Count(), idx.Count(), cam.n)
	}
	for _, o := range s.Objects() {
		for _, v := range [3]float32{o.Pos.X, o.Pos.Y, o.Pos.Z} {
			if v < -7.5 || v > 7.5 {
				t.Errorf("object %d at %v outside the initial region", o.ID, o.Pos)
			}
		}
	}
}

func TestTickHonoursIntervalAndMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Initial = 1
	cfg.Max = 3
	cfg.Interval = 1
	s, err := New(cfg, NewRand(7), newIndex(t), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if o, _ := s.Tick(0.6); o != nil {
		t.Fatal("expected no spawn before the interval")
	}
	o, err := s.Tick(0.6)
	if err != nil || o == nil {
		t.Fatalf("expected a spawn after the interval, got %v, %v", o, err)
	}
	if o.ID != 1 {
		t.Errorf("expected id 1, got %d", o.ID)
	}
	// Timer restarts after a spawn
	if o, _ := s.Tick(0.5); o != nil {
		t.Error("expected the timer to restart")
	}
	s.Tick(0.6)
	if !s.Done() || s.Count() != 3 {
		t.Fatalf("expected 3 objects and done, got %d", s.Count())
	}
	if o, _ := s.Tick(100); o != nil {
		t.Error("expected no spawn once max is reached")
	}
}

func TestOperatingRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Initial = 0
	cfg.Max = 50
	cfg.Interval = 0
	s, _ := New(cfg, NewRand(3), newIndex(t), nil, nil)
	for i := 0; i < 50; i++ {
		if _, err := s.Tick(1); err != nil {
			t.Fatal(err)
		}
	}
	// operating region is 105 wide, so lo = -52.5, hi = -37.5
	for _, o := range s.Objects() {
		for _, v := range [3]float32{o.Pos.X, o.Pos.Y, o.Pos.Z} {
			if v < -52.5 || v > -37.5 {
				t.Fatalf("object %d at %v outside [-52.5, -37.5]", o.ID, o.Pos)
			}
		}
	}
}

func TestSameSeedSamePoints(t *testing.T) {
	a, _ := New(DefaultConfig(), NewRand(42), newIndex(t), nil, nil)
	b, _ := New(DefaultConfig(), NewRand(42), newIndex(t), nil, nil)
	for i := range a.Objects() {
		if a.Objects()[i].Pos != b.Objects()[i].Pos {
			t.Fatalf("object %d: expected %v, got %v", i, a.Objects()[i].Pos, b.Objects()[i].Pos)
		}
	}
}

func TestNewValidation(t *testing.T) {
	bad := DefaultConfig()
	bad.WorldSize = 0
	tests := []struct {
		name string
		cfg  Config
		rand bool
		idx  bool
		err  error
	}{
		{"nil rand", DefaultConfig(), false, true, ErrNilRand},
		{"nil index", DefaultConfig(), true, false, ErrNilIndex},
		{"zero world", bad, true, true, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var idx spatial.Index[*Object]
			if tt.idx {
				idx = newIndex(t)
			}
			r := NewRand(1)
			if !tt.rand {
				r = nil
			}
			if _, err := New(tt.cfg, r, idx, nil, nil); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}
