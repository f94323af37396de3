// Package protocol implements a client for the Lutron integration protocol.
//
// The integration protocol is a line-oriented text protocol spoken over a raw
// TCP socket (port 23 on RadioRA2 main repeaters and Caseta Pro bridges).
// This package handles the login handshake, decodes output level broadcasts
// and encodes output commands.
//
// # Protocol Overview
//
// After connecting, the bridge prompts for credentials without a line
// terminator:
//
//	login: <username>
//	password: <password>
//	GNET>
//
// The "NET>" suffix means the session is authenticated. A rejected login
// ends in "bad login", and repeated failures in "... login attempts.".
//
// Once authenticated the bridge broadcasts every output change as a
// CRLF-terminated line, often prefixed by the prompt:
//
//	GNET> ~OUTPUT,12,1,45.50
//
// where 12 is the integration ID and 45.50 the level in percent.
//
// # Commands
//
//	#OUTPUT,<id>,1,<level>   set level
//	#OUTPUT,<id>,2           start raising (close curtain, raise shade)
//	#OUTPUT,<id>,3           start lowering (open curtain, drop shade)
//	#OUTPUT,<id>,4           stop
//	?output,<id>,1           request level, answered by a broadcast
//
// # Usage Example
//
//	client := protocol.NewClient("192.168.1.50", protocol.DefaultPort)
//	defer client.Close()
//
//	client.AddLevelListener(protocol.LevelListenerFunc(
//	    func(c *protocol.Client, id int, level float64) {
//	        fmt.Printf("output %d is at %.0f%%\n", id, level)
//	    }))
//
//	err := client.Connect(ctx, &protocol.ConnectionCallbacks{
//	    StateChanged: func(c *protocol.Client, s protocol.ConnectionStatus) {
//	        if s == protocol.StatusConnected {
//	            c.SetLevel(12, 75)
//	        }
//	    },
//	    Login:    func() string { return "lutron" },
//	    Password: func() string { return "integration" },
//	})
//
// # Error Handling
//
// Nothing is thrown across the asynchronous boundary. Failures become either
// a lifecycle notification (ConnectionStatus) or an exception notification
// carrying a *ConnectionError. Malformed broadcasts are dropped and invalid
// levels are ignored.
//
// # Thread Safety
//
// The read loop is the only goroutine that touches the receive buffer and the
// handshake phase. Listener registration is mutex-guarded. Lifecycle and
// exception callbacks run in order on one dispatcher goroutine. Each level
// listener has its own delivery goroutine and bounded queue; when the queue
// is full the event is dropped for that listener and a warning is logged, so
// a slow listener never stalls the read loop or the other listeners.
//
// Connect waits for the previous read loop to exit before dialing, so no
// notification of a superseded connection arrives after it returns.
package protocol
