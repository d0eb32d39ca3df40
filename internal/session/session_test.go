package session

import (
	"testing"

	"github.com/Faultbox/voxelchunk/internal/config"
	"github.com/Faultbox/voxelchunk/internal/engine/debug"
	"github.com/Faultbox/voxelchunk/internal/voxel"
)

func newSession(t *testing.T, mutate func(*config.Config)) (*Session, *[]*voxel.Mesh) {
	t.Helper()
	cfg := config.Default()
	cfg.Chunk.Resolution = 2
	cfg.Chunk.Size = 2
	if mutate != nil {
		mutate(cfg)
	}
	var meshes []*voxel.Mesh
	s, err := New(cfg, voxel.MeshConsumerFunc(func(m *voxel.Mesh) { meshes = append(meshes, m) }), nil)
	if err != nil {
		t.Fatal(err)
	}
	return s, &meshes
}

func TestNewBuildsAndFrames(t *testing.T) {
	s, meshes := newSession(t, nil)
	if len(*meshes) != 1 || s.Builder.State() != voxel.StateBuilt {
		t.Fatalf("expected one built mesh, got %d in state %s", len(*meshes), s.Builder.State())
	}
	// chunk plus the initial batch of 4
	if n := len(s.Rig.Targets()); n != 5 {
		t.Errorf("expected 5 framing targets, got %d", n)
	}
	if s.Index.Count() != 4 {
		t.Errorf("expected 4 indexed objects, got %d", s.Index.Count())
	}
	if len(s.Lines.Bounds) == 0 || len(s.Lines.Points) != 4*debug.PointMarkerVertexCount*3 {
		t.Errorf("expected debug lines for bounds and 4 markers, got %d/%d", len(s.Lines.Bounds), len(s.Lines.Points))
	}
}

func TestApplyResolution(t *testing.T) {
	s, meshes := newSession(t, nil)

	s.Apply(ActionFiner)
	if s.Builder.State() != voxel.StateStale {
		t.Fatal("expected stale after a resolution change")
	}
	if err := s.Update(0.016); err != nil {
		t.Fatal(err)
	}
	m := s.Builder.Mesh()
	if m.Resolution != 3 || len(m.Vertices) != 24*27 {
		t.Errorf("expected R=3 with %d vertices, got R=%d with %d", 24*27, m.Resolution, len(m.Vertices))
	}

	// unchanged frames do not rebuild
	s.Update(0.016)
	if len(*meshes) != 2 {
		t.Errorf("expected 2 meshes, got %d", len(*meshes))
	}

	for i := 0; i < 5; i++ {
		s.Apply(ActionCoarser)
	}
	s.Update(0.016)
	if s.Builder.Resolution() != 1 || s.Builder.Mesh().Resolution != 1 {
		t.Errorf("expected resolution clamped at 1, got %d", s.Builder.Resolution())
	}
}

func TestApplyToggles(t *testing.T) {
	s, _ := newSession(t, nil)

	s.Apply(ActionToggleCull)
	s.Update(0.016)
	if m := s.Builder.Mesh(); !m.Culled || len(m.Indices) != 24*voxel.IndicesPerFace {
		t.Errorf("expected culled shell of 24 faces, got %d indices", len(m.Indices))
	}

	s.Apply(ActionToggleLayout)
	s.Update(0.016)
	if m := s.Builder.Mesh(); m.Layout != voxel.LayoutShared || m.Culled {
		t.Errorf("expected shared unculled mesh, got %s culled=%v", m.Layout, m.Culled)
	}

	s.Apply(ActionToggleBounds)
	if s.ShowBounds || len(s.Lines.Bounds) != 0 {
		t.Error("expected bounds hidden with no lines")
	}
	if !s.Apply(ActionQuit) {
		t.Error("expected quit")
	}
}

func TestRefreshFailureStepsBack(t *testing.T) {
	s, _ := newSession(t, func(c *config.Config) { c.Chunk.MaxVertices = 24 * 8 })
	s.Apply(ActionFiner)
	s.Update(0.016)
	if s.Builder.Resolution() != 2 {
		t.Errorf("expected resolution back at 2, got %d", s.Builder.Resolution())
	}
	if s.Builder.Mesh().Resolution != 2 {
		t.Errorf("expected the R=2 mesh kept, got %d", s.Builder.Mesh().Resolution)
	}
}

func TestRTreeBackend(t *testing.T) {
	s, _ := newSession(t, func(c *config.Config) { c.Spatial.Backend = "rtree" })
	for i := 0; i < 400; i++ {
		if err := s.Update(0.1); err != nil {
			t.Fatal(err)
		}
	}
	if s.Index.Count() != 20 || !s.Spawner.Done() {
		t.Errorf("expected all 20 objects indexed, got %d", s.Index.Count())
	}
}
