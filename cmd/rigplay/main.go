// Command rigplay plays a rig through a scripted sequence of animation states and prints
// the resulting skinning palettes.
//
//	rigplay -rig hero.glb -script walk.toml [-column-major] [-realtime]
package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-skel/engine"
	"github.com/Carmen-Shannon/oxy-skel/engine/game_object"
	"github.com/Carmen-Shannon/oxy-skel/engine/loader"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/Carmen-Shannon/oxy-skel/engine/renderer/palette"
	"github.com/Carmen-Shannon/oxy-skel/engine/scene"
)

type config struct {
	rigPath     string
	scriptPath  string
	columnMajor bool
	realtime    bool
	sampleRate  float64
	tickRate    float64
	quiet       bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.rigPath, "rig", "", "rig file (.yaml, .yml, .gltf, .glb)")
	flag.StringVar(&cfg.scriptPath, "script", "", "TOML playback script")
	flag.BoolVar(&cfg.columnMajor, "column-major", false, "print palettes in column-major order")
	flag.BoolVar(&cfg.realtime, "realtime", false, "run the script on the engine clock instead of stepping it")
	flag.Float64Var(&cfg.sampleRate, "sample-rate", loader.DefaultSampleRate, "glTF resampling rate in ticks per second")
	flag.Float64Var(&cfg.tickRate, "tick-rate", 60, "engine tick rate for -realtime")
	flag.BoolVar(&cfg.quiet, "quiet", false, "only print the final palette")
	flag.Parse()

	if cfg.rigPath == "" || cfg.scriptPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("[Rigplay] %v", err)
	}
}

func run(cfg config, out io.Writer) error {
	l := loader.NewLoader(loader.WithSampleRate(float32(cfg.sampleRate)))
	m, err := l.Load(cfg.rigPath)
	if err != nil {
		return err
	}
	script, err := loadScript(cfg.scriptPath)
	if err != nil {
		return err
	}

	layout := palette.LayoutRowMajor
	if cfg.columnMajor {
		layout = palette.LayoutColumnMajor
	}

	obj, err := newScriptedObject(m, script)
	if err != nil {
		return err
	}

	if cfg.realtime {
		if err := playRealtime(obj, script, cfg.tickRate); err != nil {
			return err
		}
		return printPalette(out, obj, layout)
	}
	return playSteps(out, obj, script, layout, cfg.quiet)
}

// newScriptedObject creates an object with one controller state per script state.
func newScriptedObject(m model.Model, script *playScript) (game_object.GameObject, error) {
	var opts []game_object.GameObjectBuilderOption
	for _, st := range script.States {
		opts = append(opts, game_object.WithStateClip(st.Name, st.Clip))
	}
	return game_object.NewGameObject(m, opts...)
}

// playSteps runs the script synchronously, printing the palette after every step.
func playSteps(out io.Writer, obj game_object.GameObject, script *playScript, layout palette.Layout, quiet bool) error {
	for i, step := range script.Steps {
		obj.TransitionTo(step.State)
		for r := 0; r < step.Repeat; r++ {
			if err := obj.Tick(step.DT); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		if quiet && i < len(script.Steps)-1 {
			continue
		}
		fmt.Fprintf(out, "step %d state=%s clip=%s t=%.4f\n",
			i, obj.Controller().CurrentState(), obj.Instance().CurrentClip(), obj.Instance().ElapsedTime())
		if err := printPalette(out, obj, layout); err != nil {
			return err
		}
	}
	return nil
}

// playRealtime runs the script on the engine clock. Each step holds its state for dt*repeat seconds.
func playRealtime(obj game_object.GameObject, script *playScript, tickRate float64) error {
	s := scene.NewScene("rigplay", scene.WithObjects(obj))

	var elapsed float32
	step := 0
	obj.TransitionTo(script.Steps[0].State)
	boundary := script.Steps[0].DT * float32(script.Steps[0].Repeat)

	eng := engine.NewEngine(
		engine.WithTickRate(tickRate),
		engine.WithScene(0, s),
		engine.WithTickCallback(func(dt float32) {
			elapsed += dt
			for elapsed >= boundary && step < len(script.Steps)-1 {
				step++
				obj.TransitionTo(script.Steps[step].State)
				boundary += script.Steps[step].DT * float32(script.Steps[step].Repeat)
			}
		}),
	)

	total := time.Duration(float64(script.duration()) * float64(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), total)
	defer cancel()
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// printPalette prints the staged palette bytes, 16 floats per bone in the staged order.
func printPalette(out io.Writer, obj game_object.GameObject, layout palette.Layout) error {
	skel := obj.Model().Skeleton()
	w := palette.Stage(obj.Instance().Palette(), 0, layout)
	for b := 0; b < skel.BoneCount(); b++ {
		if _, err := fmt.Fprintf(out, "  [%d] %-16s", b, skel.Bone(b).Name); err != nil {
			return err
		}
		base := b * palette.MatrixSize
		for k := 0; k < 16; k++ {
			v := math.Float32frombits(binary.LittleEndian.Uint32(w.Data[base+k*4:]))
			fmt.Fprintf(out, " %9.4f", v)
		}
		fmt.Fprintln(out)
	}
	return nil
}
