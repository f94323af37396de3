package protocol

// ConnectionStatus is a lifecycle notification reported to a ConnectionListener.
// The numeric values match the integration client codes used by existing
// tooling, so they are safe to log or export as metrics.
type ConnectionStatus int

const (
	StatusConnectFailed   ConnectionStatus = -1
	StatusConnected       ConnectionStatus = 0
	StatusDisconnected    ConnectionStatus = 1
	StatusBadLogin        ConnectionStatus = 2
	StatusTooManyAttempts ConnectionStatus = 3
	StatusEOF             ConnectionStatus = 4
)

// String returns the status name, e.g. "STATUS_CONNECTED".
func (s ConnectionStatus) String() string {
	switch s {
	case StatusConnected:
		return "STATUS_CONNECTED"
	case StatusEOF:
		return "STATUS_EOF"
	case StatusBadLogin:
		return "STATUS_BAD_LOGIN"
	case StatusTooManyAttempts:
		return "STATUS_TOO_MANY_ATTEMPTS"
	case StatusConnectFailed:
		return "STATUS_CONNECT_FAILED"
	case StatusDisconnected:
		return "STATUS_DISCONNECTED"
	default:
		return "UNKNOWN_STATUS"
	}
}

// connectionPhase determines how the read loop interprets accumulated bytes.
// Exactly one phase is active per session and only the read loop changes it.
type connectionPhase int

const (
	phaseConnecting connectionPhase = iota
	phaseAwaitingUsernamePrompt
	phaseAwaitingPasswordPrompt
	phaseAwaitingAuthResult
	phaseAuthenticated
	phaseTerminated
)

func (p connectionPhase) String() string {
	switch p {
	case phaseConnecting:
		return "connecting"
	case phaseAwaitingUsernamePrompt:
		return "awaiting_username_prompt"
	case phaseAwaitingPasswordPrompt:
		return "awaiting_password_prompt"
	case phaseAwaitingAuthResult:
		return "awaiting_auth_result"
	case phaseAuthenticated:
		return "authenticated"
	case phaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
