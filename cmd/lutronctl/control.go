package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/lutronctl/internal/protocol"
	"github.com/muurk/lutronctl/internal/shell"
	"github.com/muurk/lutronctl/internal/ui"
)

// levelTimeout bounds how long get waits for the level broadcast.
const levelTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(curtainCmd)
	rootCmd.AddCommand(shadeCmd)
	rootCmd.AddCommand(ledCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <output> <level>",
	Short: "Set an output level",
	Long: `Set an output to a level between 0 and 100 percent.

<output> is an integration ID or a device name from the config file.`,
	Example: `  lutronctl set 12 75
  lutronctl set kitchen 40%`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd.Context(), "Set Level", "set "+strings.Join(args, " "), false)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <output>",
	Short: "Request an output level",
	Long: `Ask the bridge for an output's level and wait for the answer.

The bridge answers with a level broadcast, which is printed when it arrives.`,
	Example: `  lutronctl get 12`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd.Context(), "Get Level", "get "+args[0], true)
	},
}

var curtainCmd = &cobra.Command{
	Use:       "curtain open|close|stop <output>",
	Short:     "Open, close or stop a curtain",
	Example:   `  lutronctl curtain open 5`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"open", "close", "stop"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd.Context(), "Curtain "+args[0], "curtain "+strings.Join(args, " "), false)
	},
}

var shadeCmd = &cobra.Command{
	Use:       "shade raise|stop|drop <output>",
	Short:     "Raise, stop or drop a shade",
	Example:   `  lutronctl shade drop 31`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"raise", "stop", "drop"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd.Context(), "Shade "+args[0], "shade "+strings.Join(args, " "), false)
	},
}

var ledCmd = &cobra.Command{
	Use:       "led on|off|stop <output>",
	Short:     "Switch a keypad LED",
	Example:   `  lutronctl led on 9`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"on", "off", "stop"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd.Context(), "LED "+args[0], "led "+strings.Join(args, " "), false)
	},
}

// stepListener advances the connect and authenticate steps of a one-shot
// command as the bridge prompts.
type stepListener struct {
	cliListener
	onStep      ui.StepCallback
	authStarted atomic.Bool
}

func (l *stepListener) OnLoginPrompt() string {
	if !l.authStarted.Swap(true) {
		l.onStep(1, "", ui.StepComplete, "")
		l.onStep(2, "", ui.StepRunning, "")
	}
	return l.cliListener.OnLoginPrompt()
}

// runControl connects, sends one shell-syntax command line and disconnects.
// With awaitLevel it also waits for the output's level broadcast.
func runControl(ctx context.Context, title, line string, awaitLevel bool) error {
	parsed, err := shell.ParseCommand(line, registry.FindDevice)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := client.Addr()
	name := registry.DeviceName(parsed.ID)
	wire := parsed.Wire()

	steps := []string{"Connecting to " + addr, "Authenticating as " + username(), "Sending " + wire}
	if awaitLevel {
		steps = append(steps, "Waiting for level")
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   title,
		Command: "lutronctl " + line,
		Params: map[string]string{
			"Bridge": addr,
			"Output": fmt.Sprintf("%s [%d]", name, parsed.ID),
		},
		StepNames: steps,
		TipsFor:   troubleshooting,
	})

	_, err = runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
		levels := make(chan float64, 1)
		if awaitLevel {
			listener := protocol.LevelListenerFunc(func(_ *protocol.Client, id int, level float64) {
				if id == parsed.ID {
					select {
					case levels <- level:
					default:
					}
				}
			})
			client.AddLevelListener(listener)
			defer client.RemoveLevelListener(listener)
		}

		listener := &stepListener{cliListener: cliListener{addr: addr}, onStep: onStep}
		onStep(1, "", ui.StepRunning, "")
		if err := connectAndWait(ctx, client, listener); err != nil {
			failed := 1
			if listener.authStarted.Load() {
				failed = 2
			}
			onStep(failed, "", ui.StepFailed, "")
			return nil, err
		}
		onStep(2, "", ui.StepComplete, "")

		onStep(3, "", ui.StepRunning, "")
		parsed.Execute(client)
		onStep(3, "", ui.StepComplete, "")

		details := map[string]string{"Output": name, "Sent": wire}
		if !awaitLevel {
			return details, nil
		}

		onStep(4, "", ui.StepRunning, "")
		select {
		case level := <-levels:
			onStep(4, "", ui.StepComplete, ui.FormatLevel(level))
			details["Level"] = ui.FormatLevel(level)
			return details, nil
		case <-time.After(levelTimeout):
			onStep(4, "", ui.StepFailed, "")
			return nil, fmt.Errorf("no level reported for output %d within %s", parsed.ID, levelTimeout)
		case <-ctx.Done():
			onStep(4, "", ui.StepFailed, "")
			return nil, ctx.Err()
		}
	})
	return err
}
