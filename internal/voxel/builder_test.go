package voxel

import (
	"errors"
	"runtime"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/voxelchunk/internal/engine/camera"
	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

type fakeCamera struct {
	targets []camera.Target
}

func (c *fakeCamera) AddVisibleTarget(t camera.Target) { c.targets = append(c.targets, t) }

func TestNewBuilderValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  BuilderConfig
		err  error
	}{
		{"zero resolution", BuilderConfig{Resolution: 0, Size: 1}, ErrInvalidResolution},
		{"zero size", BuilderConfig{Resolution: 2}, ErrInvalidSize},
		{"cull shared", BuilderConfig{Resolution: 2, Size: 1, Build: BuildOptions{Layout: LayoutShared, Cull: true}}, ErrCullingRequiresFaceted},
		{"over capacity", BuilderConfig{Resolution: 800, Size: 1}, ErrCapacityExceeded},
		{"unknown layout", BuilderConfig{Resolution: 2, Size: 1, Build: BuildOptions{Layout: Layout(9)}}, ErrUnsupportedLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuilder(tt.cfg)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if b != nil {
				t.Error("expected no builder on error")
			}
		})
	}
}

func TestBuilderRefreshLifecycle(t *testing.T) {
	var received []*Mesh
	cam := &fakeCamera{}
	core, logs := observer.New(zapcore.DebugLevel)

	b, err := NewBuilder(BuilderConfig{
		Resolution: 1,
		Size:       1,
		Consumer:   MeshConsumerFunc(func(m *Mesh) { received = append(received, m) }),
		Camera:     cam,
		Logger:     zap.New(core),
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.State() != StateStale || b.Mesh() != nil {
		t.Fatalf("expected a stale builder with no mesh, got %s", b.State())
	}

	rebuilt, err := b.Refresh()
	if err != nil || !rebuilt {
		t.Fatalf("expected first refresh to build, got %v, %v", rebuilt, err)
	}
	if b.State() != StateBuilt {
		t.Fatalf("expected built, got %s", b.State())
	}
	first := b.Mesh()
	if len(first.Vertices) != 24 || len(first.Indices) != 36 || b.Grid().Len() != 1 {
		t.Fatalf("expected 1 cell with 24/36, got %d/%d", len(first.Vertices), len(first.Indices))
	}

	// Unchanged resolution leaves the buffers untouched
	if err := b.SetResolution(1); err != nil {
		t.Fatal(err)
	}
	rebuilt, err = b.Refresh()
	if err != nil || rebuilt {
		t.Fatalf("expected no-op refresh, got %v, %v", rebuilt, err)
	}
	if b.Mesh() != first || &b.Mesh().Vertices[0] != &first.Vertices[0] {
		t.Error("expected the same mesh buffers after a no-op refresh")
	}

	if err := b.SetResolution(2); err != nil {
		t.Fatal(err)
	}
	if b.State() != StateStale {
		t.Fatalf("expected stale after a resolution change, got %s", b.State())
	}
	if rebuilt, err = b.Refresh(); err != nil || !rebuilt {
		t.Fatalf("expected rebuild, got %v, %v", rebuilt, err)
	}
	if m := b.Mesh(); m == first || len(m.Vertices) != 192 || len(m.Indices) != 288 {
		t.Errorf("expected new 192/288 buffers, got %d/%d", len(m.Vertices), len(m.Indices))
	}

	if len(received) != 2 || received[1] != b.Mesh() {
		t.Errorf("expected the consumer to see 2 meshes, got %d", len(received))
	}
	if len(cam.targets) != 1 || cam.targets[0] != camera.Target(b) {
		t.Errorf("expected the builder registered once, got %d registrations", len(cam.targets))
	}
	if n := logs.FilterMessage("chunk rebuilt").Len(); n != 2 {
		t.Errorf("expected 2 rebuild log entries, got %d", n)
	}
}

func TestBuilderRejectsInvalidResolution(t *testing.T) {
	b, _ := NewBuilder(BuilderConfig{Resolution: 2, Size: 1})
	if _, err := b.Refresh(); err != nil {
		t.Fatal(err)
	}
	for _, r := range []int{0, -4} {
		if err := b.SetResolution(r); !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("R=%d: expected ErrInvalidResolution, got %v", r, err)
		}
	}
	if err := b.SetResolution(564); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("R=564: expected ErrCapacityExceeded, got %v", err)
	}
	if b.Resolution() != 2 || b.State() != StateBuilt {
		t.Errorf("expected resolution 2 still built, got %d %s", b.Resolution(), b.State())
	}
}

func TestBuilderLayoutSwitchChecksCapacity(t *testing.T) {
	b, err := NewBuilder(BuilderConfig{Resolution: 600, Size: 1, Build: BuildOptions{Layout: LayoutShared}})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetBuildOptions(BuildOptions{Layout: LayoutFaceted}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if b.BuildOptions().Layout != LayoutShared {
		t.Errorf("expected shared layout kept, got %s", b.BuildOptions().Layout)
	}
}

func TestBuilderLimitCheckedBeforeAllocation(t *testing.T) {
	b, _ := NewBuilder(BuilderConfig{Resolution: 1, Size: 1, Build: BuildOptions{MaxVertices: 100}})
	if _, err := b.Refresh(); err != nil {
		t.Fatal(err)
	}
	// A 400^3 grid alone is 64 MB
	if err := b.SetResolution(400); err != nil {
		t.Fatal(err)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := b.Refresh()
	runtime.ReadMemStats(&after)

	if !errors.Is(err, ErrVertexLimit) {
		t.Fatalf("expected ErrVertexLimit, got %v", err)
	}
	if n := after.TotalAlloc - before.TotalAlloc; n > 1<<20 {
		t.Errorf("expected no grid allocation, got %d bytes allocated", n)
	}
	if b.Grid().Resolution() != 1 || b.State() != StateStale {
		t.Errorf("expected the R=1 grid kept and state stale, got R=%d %s", b.Grid().Resolution(), b.State())
	}
}

func TestBuilderFailedRebuildKeepsPreviousMesh(t *testing.T) {
	b, _ := NewBuilder(BuilderConfig{Resolution: 1, Size: 1, Build: BuildOptions{MaxVertices: 100}})
	if _, err := b.Refresh(); err != nil {
		t.Fatal(err)
	}
	prev := b.Mesh()

	if err := b.SetResolution(3); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Refresh(); !errors.Is(err, ErrVertexLimit) {
		t.Fatalf("expected ErrVertexLimit, got %v", err)
	}
	if b.Mesh() != prev || b.State() != StateStale {
		t.Errorf("expected previous mesh kept and state stale, got %s", b.State())
	}
}

func TestBuilderInvalidateAndOptions(t *testing.T) {
	calls := 0
	b, _ := NewBuilder(BuilderConfig{
		Resolution: 2,
		Size:       2,
		Occupancy:  func(x, y, z int) bool { return x == 0 },
		Consumer:   MeshConsumerFunc(func(*Mesh) { calls++ }),
	})
	b.Refresh()
	b.Invalidate()
	if b.State() != StateStale {
		t.Fatalf("expected stale after invalidate, got %s", b.State())
	}
	b.Refresh()
	if calls != 2 {
		t.Errorf("expected 2 builds, got %d", calls)
	}

	if err := b.SetBuildOptions(BuildOptions{Cull: true}); err != nil {
		t.Fatal(err)
	}
	b.Refresh()
	m := b.Mesh()
	// a 1x2x2 slab has 16 exposed faces
	if !m.Culled || len(m.Indices) != 16*IndicesPerFace {
		t.Errorf("expected a culled slab of 16 faces, got %d indices", len(m.Indices))
	}
	if b.Grid().Count() != 4 {
		t.Errorf("expected 4 occupied cells, got %d", b.Grid().Count())
	}
	if err := b.SetBuildOptions(BuildOptions{Layout: LayoutShared, Cull: true}); !errors.Is(err, ErrCullingRequiresFaceted) {
		t.Errorf("expected ErrCullingRequiresFaceted, got %v", err)
	}
}

func TestBuilderPosition(t *testing.T) {
	b, _ := NewBuilder(BuilderConfig{Resolution: 2, Size: 4, Origin: vm.Vec3{X: 10}})
	want := vm.Vec3{X: 11, Y: 1, Z: 1}
	if p := b.Position(); p != want {
		t.Errorf("expected %v, got %v", want, p)
	}
	if !b.Active() {
		t.Error("expected the chunk to be active")
	}
}
