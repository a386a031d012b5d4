// Package script replays YAML event scripts against a CD player.
package script

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/librescoot/simplefsm"
	"github.com/librescoot/simplefsm/internal/player"
)

//go:embed default.yaml
var defaultScript []byte

var (
	// ErrInvalidScript is returned for scripts that cannot be decoded
	ErrInvalidScript = errors.New("invalid script")
	// ErrExpectation is returned when a step's expectation is not met
	ErrExpectation = errors.New("expectation failed")
)

// Script is a named list of steps
type Script struct {
	Name  string
	Steps []Step
}

// Step sends one event. Expect and Result are optional checks on the outcome.
type Step struct {
	Event  string `mapstructure:"event" yaml:"event"`
	Title  string `mapstructure:"title" yaml:"title,omitempty"`
	Expect string `mapstructure:"expect" yaml:"expect,omitempty"`
	Result string `mapstructure:"result" yaml:"result,omitempty"`
}

// document is the raw file shape; steps are either a bare event name or a map
type document struct {
	Name  string `yaml:"name"`
	Steps []any  `yaml:"steps"`
}

// Default returns the built-in demo script
func Default() *Script {
	s, err := Parse(defaultScript)
	if err != nil {
		panic(fmt.Errorf("default script: %w", err))
	}
	return s
}

// Load reads a script file
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML script
func Parse(data []byte) (*Script, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}

	s := &Script{Name: doc.Name}
	for i, raw := range doc.Steps {
		step, err := decodeStep(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidScript, i+1, err)
		}
		s.Steps = append(s.Steps, step)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	return s, nil
}

func decodeStep(raw any) (Step, error) {
	var step Step
	switch v := raw.(type) {
	case string:
		step.Event = v
	case map[string]any:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &step,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return Step{}, err
		}
		if err := dec.Decode(v); err != nil {
			return Step{}, fmt.Errorf("failed to decode step: %w", err)
		}
	default:
		return Step{}, fmt.Errorf("invalid step type: %T", v)
	}
	if step.Event == "" {
		return Step{}, fmt.Errorf("step has no event")
	}
	switch step.Result {
	case "", simplefsm.Handled.String(), simplefsm.Unhandled.String():
	default:
		return Step{}, fmt.Errorf("unknown result %q", step.Result)
	}
	return step, nil
}

// Outcome records what a step did
type Outcome struct {
	Step   Step
	Result simplefsm.Result
	State  string
}

// Run sends every step to p, writing a progress line per step to w. It stops at
// the first failed expectation and returns the outcomes so far.
func Run(p *player.Player, s *Script, w io.Writer) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(s.Steps))
	for i, step := range s.Steps {
		ev, err := player.Parse(step.Event, step.Title)
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		res := p.HandleMessage(ev)
		o := Outcome{Step: step, Result: res, State: p.State().Label()}
		outcomes = append(outcomes, o)
		fmt.Fprintf(w, " -> %s (%s)\n", p.State(), res)

		if step.Expect != "" && step.Expect != o.State {
			return outcomes, fmt.Errorf("%w: step %d (%s): state %s, want %s",
				ErrExpectation, i+1, step.Event, o.State, step.Expect)
		}
		if step.Result != "" && step.Result != res.String() {
			return outcomes, fmt.Errorf("%w: step %d (%s): %s, want %s",
				ErrExpectation, i+1, step.Event, res, step.Result)
		}
	}
	return outcomes, nil
}
