package protocol

import "testing"

// runAuth feeds s byte by byte starting in phase and collects the actions.
func runAuth(phase connectionPhase, acc *LineAccumulator, s string) (connectionPhase, []authAction) {
	var actions []authAction
	for i := 0; i < len(s); i++ {
		acc.Append(s[i])
		var action authAction
		phase, action = authStep(phase, s[i], acc)
		if action != authNone {
			actions = append(actions, action)
		}
	}
	return phase, actions
}

func TestAuthStep_Handshake(t *testing.T) {
	var acc LineAccumulator

	phase, actions := runAuth(phaseAwaitingUsernamePrompt, &acc, "\r\nlogin:")
	if phase != phaseAwaitingPasswordPrompt || len(actions) != 1 || actions[0] != authSendUsername {
		t.Fatalf("after login prompt: phase=%v actions=%v", phase, actions)
	}

	phase, actions = runAuth(phase, &acc, " lutron\r\npassword:")
	if phase != phaseAwaitingAuthResult || len(actions) != 1 || actions[0] != authSendPassword {
		t.Fatalf("after password prompt: phase=%v actions=%v", phase, actions)
	}

	phase, actions = runAuth(phase, &acc, " \r\nGNET>")
	if phase != phaseAuthenticated || len(actions) != 1 || actions[0] != authSucceeded {
		t.Fatalf("after NET>: phase=%v actions=%v", phase, actions)
	}
}

func TestAuthStep_Results(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPhase  connectionPhase
		wantAction authAction
	}{
		{"authenticated", "\r\nGNET>", phaseAuthenticated, authSucceeded},
		{"bad login", "\r\nbad login", phaseAwaitingUsernamePrompt, authBadLogin},
		{"too many attempts", "\r\ntoo many failed login attempts.", phaseTerminated, authTooManyAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acc LineAccumulator
			phase, actions := runAuth(phaseAwaitingAuthResult, &acc, tt.input)
			if phase != tt.wantPhase {
				t.Errorf("phase = %v, want %v", phase, tt.wantPhase)
			}
			if len(actions) != 1 || actions[0] != tt.wantAction {
				t.Errorf("actions = %v, want [%v]", actions, tt.wantAction)
			}
		})
	}
}

func TestAuthStep_PromptsOnlyInTheirPhase(t *testing.T) {
	var acc LineAccumulator

	// A password prompt before the login prompt is not answered.
	phase, actions := runAuth(phaseAwaitingUsernamePrompt, &acc, "password:")
	if phase != phaseAwaitingUsernamePrompt || len(actions) != 0 {
		t.Errorf("phase=%v actions=%v, want no change", phase, actions)
	}

	// Once authenticated, a line that looks like a prompt is ignored.
	acc.Reset()
	phase, actions = runAuth(phaseAuthenticated, &acc, "login:")
	if phase != phaseAuthenticated || len(actions) != 0 {
		t.Errorf("phase=%v actions=%v, want no change", phase, actions)
	}
}

func TestAuthStep_InconclusiveSuffix(t *testing.T) {
	var acc LineAccumulator
	phase, actions := runAuth(phaseAwaitingAuthResult, &acc, "\r\nwelcome")
	if phase != phaseAwaitingAuthResult || len(actions) != 0 {
		t.Errorf("phase=%v actions=%v, want still awaiting result", phase, actions)
	}
}
