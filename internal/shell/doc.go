// Package shell implements the interactive lutronctl command loop.
//
// Each input line is parsed into a Command, which maps onto one protocol
// command method. Level broadcasts received while the shell runs are printed
// between prompts.
//
//	lutron> set kitchen 75
//	→ #OUTPUT,12,1,75.00
//	Kitchen [12]  ███████████████░░░░░ 75%
package shell
