package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // A, Left arrow - walk left
	ActionRight           // D, Right arrow - walk right
	ActionStop            // S, Down arrow - stop walking
	ActionUp              // W, Up arrow - previous dialog option
	ActionDown            // Down arrow inside dialogs - next dialog option
	ActionInteract        // Enter, Space - talk to the nearest building or NPC
	ActionConfirm         // Enter inside dialogs - choose highlighted option
	ActionBack            // B, Escape - close dialog / back
	ActionOption1         // 1 - choose first dialog option
	ActionOption2         // 2 - choose second dialog option
	ActionOption3         // 3 - choose third dialog option
	ActionRestart         // R key - restart after the run ended
	ActionQuit            // Q, Ctrl+C - exit game/session
	ActionPause           // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionStop:
		return "Stop"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionInteract:
		return "Interact"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionOption1:
		return "Option1"
	case ActionOption2:
		return "Option2"
	case ActionOption3:
		return "Option3"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// OptionIndex returns the zero-based dialog option selected by a numeric
// action, or -1 for any other action.
func (a Action) OptionIndex() int {
	switch a {
	case ActionOption1:
		return 0
	case ActionOption2:
		return 1
	case ActionOption3:
		return 2
	default:
		return -1
	}
}

// InputFrame represents the input state for a single simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether no action was triggered this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
