package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// playScript is a TOML playback script.
//
//	[[states]]
//	name = "Idle"
//	clip = "idle"
//
//	[[steps]]
//	state = "Idle"
//	dt = 0.033
//	repeat = 30
type playScript struct {
	States []scriptState `toml:"states"`
	Steps  []scriptStep  `toml:"steps"`
}

type scriptState struct {
	Name string `toml:"name"`
	Clip string `toml:"clip"`
}

// scriptStep enters State, then ticks Repeat times by DT seconds.
type scriptStep struct {
	State  string  `toml:"state"`
	DT     float32 `toml:"dt"`
	Repeat int     `toml:"repeat"`
}

var errEmptyScript = errors.New("script has no steps")

func loadScript(path string) (*playScript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := parseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// parseScript decodes and validates a script. A missing repeat count means one tick.
func parseScript(r io.Reader) (*playScript, error) {
	var s playScript
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}

	if len(s.Steps) == 0 {
		return nil, errEmptyScript
	}
	known := make(map[string]bool, len(s.States))
	for i, st := range s.States {
		if st.Name == "" {
			return nil, fmt.Errorf("state %d has no name", i)
		}
		known[st.Name] = true
	}
	for i := range s.Steps {
		step := &s.Steps[i]
		if !known[step.State] {
			return nil, fmt.Errorf("step %d: unknown state %q", i, step.State)
		}
		if step.DT < 0 {
			return nil, fmt.Errorf("step %d: negative dt %v", i, step.DT)
		}
		if step.Repeat <= 0 {
			step.Repeat = 1
		}
	}
	return &s, nil
}

// duration returns the total simulated time of the script in seconds.
func (s *playScript) duration() float32 {
	var total float32
	for _, step := range s.Steps {
		total += step.DT * float32(step.Repeat)
	}
	return total
}
