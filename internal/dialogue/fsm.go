// Package dialogue implements the conversational flow of the chat
// command as a pure state machine: text in, prompt and action out, no
// I/O. The driver owns file loading, engine calls, and rendering.
package dialogue

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the session's position in the conversation.
type State int

const (
	StateAwaitFile State = iota
	StateAwaitTask
	StateConfigureProfile
	StateConfigureValidation
	StateDisplay
)

func (s State) String() string {
	switch s {
	case StateAwaitFile:
		return "await-file"
	case StateAwaitTask:
		return "await-task"
	case StateConfigureProfile:
		return "configure-profile"
	case StateConfigureValidation:
		return "configure-validation"
	case StateDisplay:
		return "display"
	}
	return "unknown"
}

// Action tells the driver what to execute after a transition.
type Action int

const (
	ActionNone Action = iota
	ActionRunProfile
	ActionRunValidation
	ActionRunBoth
)

// Options is the session's immutable run configuration. Mutators return
// a copy; a Step's Options field is the record to run with.
type Options struct {
	SampleRows int
	Format     string
}

// DefaultOptions is the record a fresh session starts from.
var DefaultOptions = Options{SampleRows: 5, Format: "markdown"}

// WithSampleRows returns a copy with the sample row count replaced.
func (o Options) WithSampleRows(n int) Options {
	o.SampleRows = n
	return o
}

// WithFormat returns a copy with the output format replaced.
func (o Options) WithFormat(format string) Options {
	o.Format = format
	return o
}

// Step is the outcome of feeding one input to the session.
type Step struct {
	Prompt  string
	Action  Action
	File    string
	Target  string
	Options Options
}

// Session is a deterministic conversation state machine.
type Session struct {
	state  State
	file   string
	target string
	intent Intent
	opts   Options
}

// NewSession starts a conversation waiting for a file.
func NewSession() *Session {
	return &Session{state: StateAwaitFile, opts: DefaultOptions}
}

// State returns the current conversation state.
func (s *Session) State() State { return s.state }

// SetFormat changes the output format for subsequent runs.
func (s *Session) SetFormat(format string) {
	s.opts = s.opts.WithFormat(format)
}

// Reset returns the session to the initial state, keeping options.
func (s *Session) Reset() {
	s.state = StateAwaitFile
	s.file = ""
	s.target = ""
	s.intent = IntentUnknown
}

const helpText = "Tell me what to do with the file: 'profile' for structure and stats, " +
	"'validate' to check it against a target schema, or 'both'."

// Input advances the machine with one line of user text.
func (s *Session) Input(text string) Step {
	text = strings.TrimSpace(text)

	switch s.state {
	case StateAwaitFile, StateDisplay:
		if text == "" {
			return Step{Prompt: "Which file should I look at?"}
		}
		s.file = text
		s.target = ""
		s.state = StateAwaitTask
		return Step{Prompt: fmt.Sprintf("Got %s. Profile it, validate it, or both?", s.file)}

	case StateAwaitTask:
		intent := ClassifyIntent(text)
		switch intent {
		case IntentHelp:
			return Step{Prompt: helpText}
		case IntentUnknown:
			return Step{Prompt: "I didn't catch that. " + helpText}
		case IntentProfile:
			s.intent = intent
			s.state = StateConfigureProfile
			return Step{Prompt: fmt.Sprintf("How many sample rows? [%d]", s.opts.SampleRows)}
		default: // VALIDATE or BOTH
			s.intent = intent
			s.state = StateConfigureValidation
			return Step{Prompt: "Which target table should I validate against?"}
		}

	case StateConfigureProfile:
		if text != "" {
			n, err := strconv.Atoi(text)
			if err != nil {
				return Step{Prompt: fmt.Sprintf("Not a number. How many sample rows? [%d]", s.opts.SampleRows)}
			}
			s.opts = s.opts.WithSampleRows(n)
		}
		s.state = StateDisplay
		return Step{Action: ActionRunProfile, File: s.file, Options: s.opts}

	case StateConfigureValidation:
		if text == "" {
			return Step{Prompt: "I need a target table name to validate against."}
		}
		s.target = text
		s.state = StateDisplay
		action := ActionRunValidation
		if s.intent == IntentBoth {
			action = ActionRunBoth
		}
		return Step{Action: action, File: s.file, Target: s.target, Options: s.opts}
	}

	return Step{Prompt: helpText}
}
