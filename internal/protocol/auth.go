package protocol

// Handshake markers sent by the bridge.
const (
	LoginPrompt           = "login:"
	PasswordPrompt        = "password:"
	AuthenticatedMarker   = "NET>"
	BadLoginMarker        = "bad login"
	TooManyAttemptsMarker = "login attempts."
)

// authAction is what the read loop must do after an auth step.
type authAction int

const (
	authNone authAction = iota
	authSendUsername
	authSendPassword
	authSucceeded
	authBadLogin
	authTooManyAttempts
)

func (a authAction) String() string {
	switch a {
	case authNone:
		return "none"
	case authSendUsername:
		return "send_username"
	case authSendPassword:
		return "send_password"
	case authSucceeded:
		return "succeeded"
	case authBadLogin:
		return "bad_login"
	case authTooManyAttempts:
		return "too_many_attempts"
	default:
		return "unknown"
	}
}

// authStep advances the handshake after b has been appended to acc.
// Prompts are only checked when b is ':'; the result markers are checked
// after every byte once the password has been sent, in priority order.
//
// After a bad login the handshake starts over, because the bridge re-issues
// the login prompt. Too many attempts ends it for good.
func authStep(phase connectionPhase, b byte, acc *LineAccumulator) (connectionPhase, authAction) {
	switch phase {
	case phaseAwaitingUsernamePrompt:
		if b == ':' && acc.HasSuffix(LoginPrompt) {
			return phaseAwaitingPasswordPrompt, authSendUsername
		}

	case phaseAwaitingPasswordPrompt:
		if b == ':' && acc.HasSuffix(PasswordPrompt) {
			return phaseAwaitingAuthResult, authSendPassword
		}

	case phaseAwaitingAuthResult:
		switch {
		case acc.HasSuffix(AuthenticatedMarker):
			return phaseAuthenticated, authSucceeded
		case acc.HasSuffix(BadLoginMarker):
			return phaseAwaitingUsernamePrompt, authBadLogin
		case acc.HasSuffix(TooManyAttemptsMarker):
			return phaseTerminated, authTooManyAttempts
		}
	}
	return phase, authNone
}
