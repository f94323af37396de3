// Package bridge relays a Lutron integration connection to WebSocket clients.
//
// A Server subscribes to a protocol.Client and pushes every output level
// broadcast and lifecycle change to the connected WebSocket clients as JSON.
// Clients send commands back over the same socket, and the relay exposes
// Prometheus metrics next to it.
//
// # Routes
//
//	GET /ws       WebSocket upgrade
//	GET /metrics  Prometheus exposition
//
// # Messages
//
// Server to client:
//
//	{"type":"hello","session":"<uuid>","status":"STATUS_CONNECTED"}
//	{"type":"level","id":12,"level":45.5}
//	{"type":"status","status":"STATUS_DISCONNECTED"}
//	{"type":"ack","command":"set_level","id":12}
//	{"type":"error","error":"unknown command \"dance\""}
//
// Client to server:
//
//	{"command":"set_level","id":12,"level":50}
//	{"command":"request_level","id":12}
//	{"command":"open_curtain","id":40}
//
// The other commands are close_curtain, stop_curtain, raise_shade,
// stop_shade, drop_shade, led_on, led_off and led_stop.
//
// # Usage Example
//
//	client := protocol.NewClient(host, protocol.DefaultPort)
//	srv := bridge.New(&bridge.Config{Port: bridge.DefaultPort}, client)
//	if err := client.Connect(ctx, srv.Listener(credentials)); err != nil {
//	    return err
//	}
//	return srv.Start()
//
// # TLS
//
// Set Config.TLS (see NewTLSConfig) to serve the same routes over HTTPS and
// WSS.
//
// # Slow Clients
//
// Each session has a bounded send queue. A session whose queue is full is
// closed rather than allowed to stall the dispatcher.
//
// # Graceful Shutdown
//
// Start handles SIGINT and SIGTERM: the HTTP listener is closed, every
// WebSocket session is closed and the relay unsubscribes from the client.
package bridge
