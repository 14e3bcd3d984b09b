package viewer

// State is the lifecycle stage of a Session.
type State int32

const (
	StateIdle State = iota
	StateConfiguring
	StateInitialized
	StateScanning
	StateShuttingDown
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfiguring:
		return "configuring"
	case StateInitialized:
		return "initialized"
	case StateScanning:
		return "scanning"
	case StateShuttingDown:
		return "shutting-down"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ExitReason records why the acquire-render loop ended.
type ExitReason int

const (
	// ExitRuntimeStopped: the driver runtime stopped reporting OK.
	ExitRuntimeStopped ExitReason = iota
	// ExitKey: the operator pressed ESC.
	ExitKey
	// ExitInterrupted: the context was cancelled, typically by SIGINT.
	ExitInterrupted
	// ExitFatal: initialization, acquisition or display failed.
	ExitFatal
)

func (r ExitReason) String() string {
	switch r {
	case ExitRuntimeStopped:
		return "runtime-stopped"
	case ExitKey:
		return "exit-key"
	case ExitInterrupted:
		return "interrupted"
	case ExitFatal:
		return "fatal"
	default:
		return "unknown"
	}
}
