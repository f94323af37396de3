// Package monitor implements the live lutronctl dashboard.
//
// The dashboard is a Bubble Tea program listing outputs with their current
// levels. Protocol callbacks arrive on dispatcher goroutines and are
// forwarded into the program with Send, so the model is only ever touched
// by the Bubble Tea event loop.
//
// # Keys
//
//	↑/↓ or k/j   select an output
//	+/-          raise or lower the selected output by 10%
//	f / 0        full on / off
//	r            request every level again
//	q            quit
package monitor
