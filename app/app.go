// Package app is a minimal staged application loop: a World of typed
// resources, systems grouped into stages, and plugins that configure both.
//
// One frame runs the stages in order:
//
//	First -> PreUpdate -> Update -> Render
//
// Startup systems run once, before the first frame.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/event"
)

// Stage names a group of systems run together.
type Stage int

// Stages in execution order.
const (
	Startup Stage = iota
	First
	PreUpdate
	Update
	Render

	numStages
)

var stageNames = [numStages]string{"Startup", "First", "PreUpdate", "Update", "Render"}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// System is a unit of per-frame work.
type System func(w *World) error

// Plugin configures an App.
type Plugin interface {
	Build(a *App) error
}

// Time is the frame clock resource.
type Time struct {
	// Delta is the time since the previous frame.
	Delta time.Duration
	// Elapsed is the time since the first frame.
	Elapsed time.Duration
	// Frame counts completed frames.
	Frame uint64
}

// DeltaSeconds returns Delta in seconds.
func (t *Time) DeltaSeconds() float64 {
	return t.Delta.Seconds()
}

// Exit is sent to stop Run after the current frame.
type Exit struct{}

type namedSystem struct {
	name string
	run  System
}

// App owns a World and the systems that operate on it.
type App struct {
	World *World

	stages  [numStages][]namedSystem
	started bool
	last    time.Time
	exit    event.Reader[Exit]

	now func() time.Time
}

// New returns an App bound to the calling OS thread. All frames must run on
// that thread.
func New() *App {
	a := &App{
		World: NewWorld(),
		now:   time.Now,
	}
	Insert(a.World, &Time{})
	AddEvent[Exit](a)
	return a
}

// AddPlugin builds p into the app.
func (a *App) AddPlugin(p Plugin) error {
	if err := p.Build(a); err != nil {
		return fmt.Errorf("app: plugin %T: %w", p, err)
	}
	return nil
}

// AddSystem appends s to stage. Systems in a stage run in insertion order.
func (a *App) AddSystem(stage Stage, name string, s System) *App {
	a.stages[stage] = append(a.stages[stage], namedSystem{name: name, run: s})
	return a
}

// Systems returns the names of the systems in stage, in run order.
func (a *App) Systems(stage Stage) []string {
	names := make([]string, len(a.stages[stage]))
	for i, s := range a.stages[stage] {
		names[i] = s.name
	}
	return names
}

// AddEvent registers an event queue of type T as a resource and rotates it
// at the start of every frame. Repeated calls return the existing queue.
func AddEvent[T any](a *App) *event.Events[T] {
	if ev, ok := Get[event.Events[T]](a.World); ok {
		return ev
	}
	ev := &event.Events[T]{}
	Insert(a.World, ev)
	a.AddSystem(First, fmt.Sprintf("events[%T]", *new(T)), func(*World) error {
		ev.Update()
		return nil
	})
	return ev
}

// AddAssets registers an asset store of type T as a resource and rotates
// its event queue at the start of every frame. Repeated calls return the
// existing store.
func AddAssets[T any](a *App) *asset.Assets[T] {
	if s, ok := Get[asset.Assets[T]](a.World); ok {
		return s
	}
	s := asset.New[T]()
	Insert(a.World, s)
	a.AddSystem(First, fmt.Sprintf("assets[%T]", *new(T)), func(*World) error {
		s.Update()
		return nil
	})
	return s
}

// Step runs one frame with the given delta. Errors from individual systems
// are joined; a failing system does not stop the rest of the frame.
func (a *App) Step(dt time.Duration) error {
	t := MustGet[Time](a.World)
	t.Delta = dt
	t.Elapsed += dt

	var errs []error
	if !a.started {
		a.started = true
		errs = a.runStage(Startup, errs)
	}
	for s := First; s < numStages; s++ {
		errs = a.runStage(s, errs)
	}
	t.Frame++
	return errors.Join(errs...)
}

func (a *App) runStage(stage Stage, errs []error) []error {
	for _, s := range a.stages[stage] {
		if err := s.run(a.World); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", stage, s.name, err))
		}
	}
	return errs
}

// Update runs one frame timed by the wall clock.
func (a *App) Update() error {
	now := a.now()
	var dt time.Duration
	if !a.last.IsZero() {
		dt = now.Sub(a.last)
	}
	a.last = now
	return a.Step(dt)
}

// Run calls Update until ctx is done or an Exit event is sent. It returns
// the first frame error, or nil on a clean exit.
func (a *App) Run(ctx context.Context) error {
	exits := MustGet[event.Events[Exit]](a.World)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := a.Update(); err != nil {
			return err
		}
		if len(a.exit.Read(exits)) > 0 {
			return nil
		}
	}
}
