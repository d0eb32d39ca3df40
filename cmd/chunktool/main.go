// chunktool is a CLI utility for inspecting and exporting voxel chunk meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Faultbox/voxelchunk/internal/config"
	"github.com/Faultbox/voxelchunk/internal/export"
	"github.com/Faultbox/voxelchunk/internal/logger"
	"github.com/Faultbox/voxelchunk/internal/spatial"
	"github.com/Faultbox/voxelchunk/internal/spawn"
	"github.com/Faultbox/voxelchunk/internal/voxel"
	vm "github.com/Faultbox/voxelchunk/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "build":
		err = cmdBuild(args)
	case "spawn":
		err = cmdSpawn(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`chunktool - voxel chunk mesh utility

Usage:
  chunktool <command> [options]

Commands:
  info  -r N                         Show strides and buffer sizes for resolution N
  build [-config file] [-r N] [-layout faceted|shared] [-cull] [-stl out.stl]
                                     Build, validate and optionally export a chunk
  spawn [-config file] [-ticks N] [-dt S] [-seed N] [-index octree|rtree]
                                     Run the spawner and report the index

Examples:
  chunktool info -r 64
  chunktool build -r 16 -cull -stl chunk.stl
  chunktool spawn -ticks 600 -index rtree`)
}

// loadConfig starts from defaults and merges path when given.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		if err := config.LoadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	return cfg, nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	r := fs.Int("r", 8, "Cells per axis")
	fs.Parse(args)

	s, err := voxel.NewStrides(*r)
	if err != nil {
		return err
	}
	fmt.Printf("Resolution: %d (%d cells)\n", s.Resolution, s.Resolution*s.Resolution*s.Resolution)
	fmt.Printf("Strides:    y=%d z=%d yz=%d\n", s.YSkip, s.ZSkip, s.YZSkip)
	fmt.Printf("Corners:    %v\n", s.CornerOffsets())
	fmt.Println()

	for _, layout := range []voxel.Layout{voxel.LayoutFaceted, voxel.LayoutShared} {
		v, i, err := voxel.BufferSizes(*r, layout)
		if err != nil {
			return err
		}
		status := "ok"
		if err := voxel.CheckCapacity(*r, layout); err != nil {
			status = err.Error()
		}
		fmt.Printf("  %-8s vertices=%-12d indices=%-12d %s\n", layout, v, i, status)
	}
	return nil
}

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Config file")
	r := fs.Int("r", 0, "Cells per axis (0 = config)")
	size := fs.Float64("size", 0, "Chunk edge length (0 = config)")
	layout := fs.String("layout", "", "faceted or shared")
	cull := fs.Bool("cull", false, "Emit only exposed faces")
	stl := fs.String("stl", "", "Write the mesh as binary STL")
	debug := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *r > 0 {
		cfg.Chunk.Resolution = *r
	}
	if *size > 0 {
		cfg.Chunk.Size = float32(*size)
	}
	if *layout != "" {
		cfg.Chunk.Layout = *layout
	}
	if *cull {
		cfg.Chunk.Cull = true
	}
	if *stl != "" {
		cfg.Export.STLPath = *stl
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := cfg.BuildOptions()
	if err != nil {
		return err
	}
	b, err := voxel.NewBuilder(voxel.BuilderConfig{
		Resolution: cfg.Chunk.Resolution,
		Size:       cfg.Chunk.Size,
		Build:      opts,
		Logger:     logger.Log,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	if _, err := b.Refresh(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	m := b.Mesh()
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	fmt.Printf("Resolution: %d   Step: %g   Layout: %s   Culled: %v\n", m.Resolution, m.StepSize, m.Layout, m.Culled)
	fmt.Printf("Vertices:   %d\n", len(m.Vertices))
	fmt.Printf("Indices:    %d (%d triangles)\n", len(m.Indices), m.TriangleCount())
	fmt.Printf("Bounds:     %v .. %v\n", m.Bounds.Min, m.Bounds.Max)
	fmt.Printf("Built in:   %v\n", elapsed)

	if cfg.Export.STLPath != "" {
		err := export.WriteSTL(cfg.Export.STLPath, m)
		if errors.Is(err, export.ErrEmptyMesh) {
			fmt.Fprintln(os.Stderr, "Mesh is empty, STL not written")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Wrote:      %s\n", cfg.Export.STLPath)
	}
	return nil
}

func cmdSpawn(args []string) error {
	fs := flag.NewFlagSet("spawn", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Config file")
	ticks := fs.Int("ticks", 600, "Frames to simulate")
	dt := fs.Float64("dt", 1.0/60, "Seconds per frame")
	seed := fs.Uint64("seed", 0, "Spawner seed (0 = config)")
	index := fs.String("index", "", "octree or rtree (empty = config)")
	radius := fs.Float64("radius", 10, "Query radius around the first object")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Spawn.Seed = *seed
	}
	if *index != "" {
		cfg.Spatial.Backend = *index
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	idx, err := spatial.New[*spawn.Object](cfg.Spatial)
	if err != nil {
		return err
	}
	sp, err := spawn.New(cfg.Spawn, spawn.NewRand(cfg.Spawn.Seed), idx, nil, nil)
	if err != nil {
		return err
	}
	for i := 0; i < *ticks && !sp.Done(); i++ {
		if _, err := sp.Tick(float32(*dt)); err != nil {
			return err
		}
	}

	fmt.Printf("Backend:  %s\n", cfg.Spatial.Backend)
	fmt.Printf("Objects:  %d / %d\n", sp.Count(), cfg.Spawn.Max)
	if o, ok := idx.(*spatial.PointOctree[*spawn.Object]); ok {
		nodes, depth := o.NodeCount()
		b := o.Bounds()
		fmt.Printf("Octree:   %d nodes, depth %d, bounds %v .. %v\n", nodes, depth, b.Min, b.Max)
	}
	if sp.Count() == 0 {
		return nil
	}

	first := sp.Objects()[0]
	near := idx.GetNearby(first.Pos, float32(*radius))
	fmt.Printf("Within %g of #%d: %d\n", *radius, first.ID, len(near))
	if n, ok := idx.Nearest(vm.Vec3{}); ok {
		fmt.Printf("Nearest origin: #%d at %v\n", n.ID, n.Pos)
	}
	return nil
}
