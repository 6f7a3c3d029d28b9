package fsm

// RootConfig is the top-level TOML layout
type RootConfig struct {
	InitialState string                  `toml:"initial"`
	Order        []string                `toml:"order"`
	States       map[string]*StateConfig `toml:"states"`
}

// StateConfig is a single state definition
type StateConfig struct {
	OnEnter     []ActionConfig     `toml:"on_enter"`
	OnExit      []ActionConfig     `toml:"on_exit"`
	Transitions []TransitionConfig `toml:"transitions"`
}

// TransitionConfig is a transition definition
type TransitionConfig struct {
	Trigger string `toml:"trigger"` // Event name or "Tick"
	Target  string `toml:"target"`
	Guard   string `toml:"guard"`
}

// ActionConfig is an action definition; extra keys are passed through Args
type ActionConfig struct {
	Action  string         `toml:"action"`
	Message string         `toml:"message"`
	Args    map[string]any `toml:"args"`
}
