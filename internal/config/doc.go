// Package config provides user configuration management for lutronctl.
//
// This package manages a YAML configuration file that stores the bridge
// address, user-defined names for integration IDs, and client preferences.
//
// # Configuration File Location
//
//   - $LUTRONCTL_CONFIG, when set
//   - Linux: $XDG_CONFIG_HOME/lutronctl/config.yaml or $HOME/.config/lutronctl/config.yaml
//   - macOS: $HOME/.config/lutronctl/config.yaml
//   - Windows: %LOCALAPPDATA%\lutronctl\config.yaml
//
// # Example
//
//	version: 1
//	bridge:
//	  host: 192.168.1.50
//	  port: 23
//	  username: lutron
//	devices:
//	  "12": {name: Kitchen, type: dimmer, area: Ground Floor}
//	  "31": {name: Living Room Shade, type: shade}
//	preferences:
//	  close_on_auth_failure: false
//	  listener_queue: 256
//	  read_timeout_seconds: 0
//	  discover_timeout: 5
//
// # Security
//
// The integration password is never stored. It is prompted for when the
// bridge asks for it.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes are protected by a mutex and performed atomically.
package config
