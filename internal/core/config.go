package core

import "time"

// DefaultTickRate is the simulation rate used when none is configured.
const DefaultTickRate = 60

// RuntimeConfig is what a host knows about the session when it starts a run.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in cells
	ScreenH  int   // Screen height in cells
	TickRate int   // Simulation ticks per second
	Seed     int64 // Patrol RNG seed; 0 lets the host pick one
}

// DefaultConfig returns the configuration of an 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// Normalized returns c with a positive tick rate and non-negative screen size.
func (c RuntimeConfig) Normalized() RuntimeConfig {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	c.ScreenW = max(c.ScreenW, 0)
	c.ScreenH = max(c.ScreenH, 0)
	return c
}

// TickInterval is the wall time between two ticks.
func (c RuntimeConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Normalized().TickRate)
}

// GameState is the run summary a game reports to its host after each tick.
type GameState struct {
	Score    int
	Items    int // Items collected this run
	Ticks    int
	GameOver bool // Every item is collected
	Paused   bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State  GameState
	Events int // Collision events produced by the tick
}
