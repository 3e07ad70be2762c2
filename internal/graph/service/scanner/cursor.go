package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/looplab/fsm"
)

// Cursor states.
const (
	StateNotStarted = "not_started"
	StateScanning   = "scanning"
	StateStopping   = "stopping"
	StateDone       = "done"
	StateFailed     = "failed"
)

const (
	eventStart  = "start"
	eventStop   = "stop"
	eventFinish = "finish"
	eventFail   = "fail"
)

// Cursor tracks the scan position and the lifecycle of one scan:
// not_started -> scanning -> stopping -> done, with failed reachable while scanning.
type Cursor struct {
	machine *fsm.FSM

	FileNumber     int
	TxID           chainhash.Hash
	BlockHash      chainhash.Hash
	BlockTimestamp time.Time
	// Started is the start gate: nothing is recorded or emitted until it opens.
	Started bool
	// Ended is set once the end transaction has been observed.
	Ended bool
}

// NewCursor returns a cursor in StateNotStarted positioned at fileNumber.
func NewCursor(fileNumber int) *Cursor {
	return &Cursor{
		FileNumber: fileNumber,
		machine: fsm.NewFSM(
			StateNotStarted,
			fsm.Events{
				{Name: eventStart, Src: []string{StateNotStarted}, Dst: StateScanning},
				{Name: eventStop, Src: []string{StateScanning}, Dst: StateStopping},
				{Name: eventFinish, Src: []string{StateScanning, StateStopping}, Dst: StateDone},
				{Name: eventFail, Src: []string{StateScanning, StateStopping}, Dst: StateFailed},
			},
			fsm.Callbacks{},
		),
	}
}

// State returns the current lifecycle state.
func (c *Cursor) State() string {
	return c.machine.Current()
}

// Start moves the cursor to StateScanning.
func (c *Cursor) Start(ctx context.Context) error {
	return c.transition(ctx, eventStart)
}

// Stop moves a scanning cursor to StateStopping.
func (c *Cursor) Stop(ctx context.Context) error {
	return c.transition(ctx, eventStop)
}

// Finish moves the cursor to StateDone.
func (c *Cursor) Finish(ctx context.Context) error {
	return c.transition(ctx, eventFinish)
}

// Fail moves the cursor to StateFailed.
func (c *Cursor) Fail(ctx context.Context) error {
	return c.transition(ctx, eventFail)
}

// Terminal reports whether the cursor reached StateDone or StateFailed.
func (c *Cursor) Terminal() bool {
	return c.machine.Is(StateDone) || c.machine.Is(StateFailed)
}

// Transitions must still happen while the scan context is being cancelled.
func (c *Cursor) transition(ctx context.Context, event string) error {
	if err := c.machine.Event(context.WithoutCancel(ctx), event); err != nil {
		return fmt.Errorf("cursor %s from %s: %w", event, c.machine.Current(), err)
	}
	return nil
}
