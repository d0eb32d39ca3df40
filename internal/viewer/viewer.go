// Package viewer runs the interactive chunk viewer window.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelchunk/internal/config"
	"github.com/Faultbox/voxelchunk/internal/engine/debug"
	"github.com/Faultbox/voxelchunk/internal/engine/input"
	"github.com/Faultbox/voxelchunk/internal/engine/renderer"
	"github.com/Faultbox/voxelchunk/internal/engine/scene"
	"github.com/Faultbox/voxelchunk/internal/engine/window"
	"github.com/Faultbox/voxelchunk/internal/session"
)

var (
	boundsColor = [3]float32{0.3, 0.9, 0.4}
	pointColor  = [3]float32{1, 0.9, 0.2}
)

// keyActions maps keys to session commands.
var keyActions = map[sdl.Keycode]session.Action{
	sdl.K_EQUALS:   session.ActionFiner,
	sdl.K_PLUS:     session.ActionFiner,
	sdl.K_KP_PLUS:  session.ActionFiner,
	sdl.K_MINUS:    session.ActionCoarser,
	sdl.K_KP_MINUS: session.ActionCoarser,
	sdl.K_c:        session.ActionToggleCull,
	sdl.K_l:        session.ActionToggleLayout,
	sdl.K_b:        session.ActionToggleBounds,
	sdl.K_ESCAPE:   session.ActionQuit,
}

// Run opens the window and loops until the user quits.
func Run(cfg *config.Config, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	win, err := window.New(window.Config{
		Title:      "voxelchunk",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	}, log)
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.Size()
	rend, err := renderer.New(w, h, log)
	if err != nil {
		return err
	}

	chunks, err := scene.NewChunkRenderer(log)
	if err != nil {
		return err
	}
	defer chunks.Destroy()

	bounds, err := scene.NewLineRenderer()
	if err != nil {
		return err
	}
	defer bounds.Destroy()

	points, err := scene.NewLineRenderer()
	if err != nil {
		return err
	}
	defer points.Destroy()

	sess, err := session.New(cfg, chunks, log)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	sess.Rig.SetAspect(rend.Aspect())

	shots := &debug.Screenshots{Dir: cfg.Viewer.ScreenshotDir, Prefix: "voxelchunk"}
	vlog := log.Named("viewer")

	in := input.New()
	last := time.Now()
	lastTitle := time.Time{}
	frames := 0

	for {
		if in.Update() {
			return nil
		}
		quit, capture := false, false
		for _, e := range in.Events() {
			switch e.Type {
			case input.EventWindowResize:
				rend.Resize(e.Width, e.Height)
				sess.Rig.SetAspect(rend.Aspect())
			case input.EventKeyDown:
				if e.Key == sdl.K_F12 {
					capture = true
				}
				if a, ok := keyActions[e.Key]; ok {
					quit = quit || sess.Apply(a)
				}
			}
		}
		if quit {
			return nil
		}
		if dx, dy := in.Drag(); dx != 0 || dy != 0 {
			sess.Rig.HandleDrag(float32(dx), float32(dy))
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		if err := sess.Update(dt); err != nil {
			return err
		}

		rend.Begin()
		viewProj := sess.Rig.ProjectionMatrix().Mul(sess.Rig.ViewMatrix())
		chunks.Render(viewProj)
		if sess.ShowBounds {
			bounds.SetLines(sess.Lines.Bounds)
			points.SetLines(sess.Lines.Points)
			bounds.Render(viewProj, boundsColor)
			points.Render(viewProj, pointColor)
		}
		if capture {
			capturePNG(shots, rend, vlog)
		}
		win.SwapBuffers()

		frames++
		if now.Sub(lastTitle) >= time.Second {
			opts := sess.Builder.BuildOptions()
			win.SetTitle(fmt.Sprintf("voxelchunk  R=%d  %s  cull=%v  objects=%d  %d fps",
				sess.Builder.Resolution(), opts.Layout, opts.Cull, sess.Index.Count(), frames))
			frames = 0
			lastTitle = now
		}
	}
}

// capturePNG reads back the frame before it is swapped out.
func capturePNG(shots *debug.Screenshots, rend *renderer.Renderer, log *zap.Logger) {
	w, h := rend.Size()
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	path, err := shots.Save(pixels, w, h)
	if err != nil {
		log.Warn("screenshot failed", zap.Error(err))
		return
	}
	log.Info("screenshot saved", zap.String("path", path))
}
