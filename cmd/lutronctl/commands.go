package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/lutronctl/internal/bridge"
	"github.com/muurk/lutronctl/internal/config"
	"github.com/muurk/lutronctl/internal/discovery"
	"github.com/muurk/lutronctl/internal/monitor"
	"github.com/muurk/lutronctl/internal/protocol"
	"github.com/muurk/lutronctl/internal/shell"
	"github.com/muurk/lutronctl/internal/ui"
)

// Command flags
var (
	scanTimeout    int
	scanSave       bool
	serveHost      string
	servePort      int
	serveAnyOrigin bool
	serveCert      string
	serveKey       string
	deviceType     string
	deviceArea     string
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(devicesCmd)
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// scanCmd discovers bridges on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Lutron bridges on the network",
	Long: `Scan for Lutron bridges using mDNS/DNS-SD discovery.

Bridges announce themselves as _lutron._tcp with a Lutron-<serial>.local
hostname. Every bridge found is listed with the integration address to use.`,
	Example: `  # Scan using the configured timeout (default 5 seconds)
  lutronctl scan

  # Longer scan, then store the first bridge in the config file
  lutronctl scan --timeout 15 --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Save the first bridge found as the configured bridge")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := registry.DiscoverTimeout()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	ui.PrintPleaseWait("Scanning for Lutron bridges", fmt.Sprintf("up to %s", timeout))

	bridges, err := discovery.ScanForBridges(ctx, timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(bridges) == 0 {
		ui.PrintFailure("No bridges found", nil, []string{
			"Make sure the bridge is powered and on the same network",
			"Multicast DNS must not be blocked by the router or firewall",
			"Try increasing --timeout for slower networks",
			"Use --host to connect to a known address directly",
		})
		return nil
	}

	for i, b := range bridges {
		details := map[string]string{
			"Serial":   b.Serial,
			"Hostname": b.Hostname,
			"Address":  b.Addr(),
		}
		if b.AdvertisedPort != 0 && b.AdvertisedPort != b.Port {
			details["Advertised"] = strconv.Itoa(b.AdvertisedPort)
		}
		ui.PrintSuccess(fmt.Sprintf("%d. %s", i+1, b.String()), details)
	}

	if scanSave {
		first := bridges[0]
		registry.Bridge.Host = first.IP
		registry.Bridge.Port = first.Port
		if err := registry.SaveTo(configPath); err != nil {
			return err
		}
		fmt.Printf("\nSaved %s to %s\n", first.Addr(), configPath)
	}
	return nil
}

// watchCmd prints level changes as they happen
var watchCmd = &cobra.Command{
	Use:   "watch [output...]",
	Short: "Print output level changes",
	Long: `Connect to the bridge and print every lifecycle change and output level
broadcast until interrupted.

The current level of each named output (or of every configured device when
none are given) is requested once connected.`,
	Example: `  lutronctl watch
  lutronctl watch kitchen 31`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ids := registry.DeviceIDs()
	if len(args) > 0 {
		ids = ids[:0]
		for _, arg := range args {
			parsed, err := shell.ParseCommand("get "+arg, registry.FindDevice)
			if err != nil {
				return err
			}
			ids = append(ids, parsed.ID)
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	printer := ui.NewPrinter(os.Stdout).WithTimestamps()
	client.AddLevelListener(protocol.LevelListenerFunc(func(_ *protocol.Client, id int, level float64) {
		printer.PrintLevel(registry.DeviceName(id), id, level)
	}))

	listener := &protocol.ConnectionCallbacks{
		StateChanged: func(c *protocol.Client, status protocol.ConnectionStatus) {
			printer.PrintStatus(status)
			if status == protocol.StatusConnected {
				for _, id := range ids {
					c.RequestLevel(id)
				}
			}
			if status == protocol.StatusEOF || status == protocol.StatusConnectFailed {
				stop()
			}
		},
		Exception: func(_ *protocol.Client, err error) { printer.PrintError(err) },
		Login:     username,
		Password:  func() string { return readPassword(client.Addr()) },
	}

	printer.Printf("Watching %s (Ctrl-C to stop)", client.Addr())
	if err := client.Connect(ctx, listener); err != nil {
		return err
	}

	<-ctx.Done()
	client.Disconnect()
	return nil
}

// monitorCmd launches the live dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Launch the live level dashboard",
	Long: `Launch an interactive dashboard listing outputs with their live levels.

Configured devices are listed up front; other outputs appear as the bridge
reports them. The password is asked for before the dashboard starts.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	devices := make([]monitor.Device, 0, len(registry.Devices))
	for _, id := range registry.DeviceIDs() {
		d := registry.GetDevice(id)
		devices = append(devices, monitor.Device{ID: id, Name: registry.DeviceName(id), Type: d.Type})
	}

	return monitor.Run(ctx, client, monitor.Options{
		Username: username(),
		Password: readPassword(client.Addr()),
		Devices:  devices,
		Namer:    registry.DeviceName,
	})
}

// shellCmd starts the interactive command shell
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive command shell",
	Long: `Connect to the bridge and read commands interactively.

Level broadcasts are printed between prompts. Type 'help' for the command
list. Input may also be piped, one command per line.`,
	Example: `  lutronctl shell
  printf 'set 12 50\nshade drop 31\n' | lutronctl shell --password-env LUTRON_PASSWORD`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	// Authenticate before the editor takes over the terminal
	statusPrinter := ui.NewPrinter(os.Stdout)
	if err := connectAndWait(ctx, client, &cliListener{printer: statusPrinter, addr: client.Addr()}); err != nil {
		return err
	}

	historyPath := ""
	if dir, err := config.GetConfigDir(); err == nil {
		historyPath = filepath.Join(dir, "history")
	}
	editor := shell.NewLineEditor(historyPath)
	defer editor.Close()

	// Later output goes through the editor so the prompt is redrawn
	statusPrinter.SetOutput(editor.Writer())

	sh := shell.New(client, editor, statusPrinter, shell.Config{
		Resolve: registry.FindDevice,
		Name:    registry.DeviceName,
	})
	client.AddLevelListener(sh)
	defer client.RemoveLevelListener(sh)

	statusPrinter.PrintStatus(protocol.StatusConnected)
	err = sh.Run(ctx)
	client.Disconnect()
	return err
}

// serveCmd runs the WebSocket relay
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Relay bridge events to WebSocket clients",
	Long: `Start an HTTP server that relays the bridge connection to WebSocket clients.

  GET /ws       level and status events as JSON; accepts JSON commands
  GET /metrics  Prometheus metrics

Commands look like {"command":"set_level","id":12,"level":50}.`,
	Example: `  lutronctl serve --password-env LUTRON_PASSWORD
  lutronctl serve --listen-port 9000 --any-origin
  lutronctl serve --tls-cert cert.pem --tls-key key.pem`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "listen-host", "", "Relay listen host (empty = all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "listen-port", bridge.DefaultPort, "Relay listen port")
	serveCmd.Flags().BoolVar(&serveAnyOrigin, "any-origin", false, "Accept WebSocket upgrades from any browser origin")
	serveCmd.Flags().StringVar(&serveCert, "tls-cert", "", "PEM certificate for serving HTTPS/WSS")
	serveCmd.Flags().StringVar(&serveKey, "tls-key", "", "PEM private key for --tls-cert")
	serveCmd.MarkFlagsRequiredTogether("tls-cert", "tls-key")
}

func runServe(cmd *cobra.Command, args []string) error {
	var tlsConfig *tls.Config
	if serveCert != "" {
		cfg, err := bridge.NewTLSConfig(serveCert, serveKey)
		if err != nil {
			return err
		}
		tlsConfig = cfg
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	srv := bridge.New(&bridge.Config{
		Host:           serveHost,
		Port:           servePort,
		AllowAnyOrigin: serveAnyOrigin,
		TLS:            tlsConfig,
	}, client)

	listener := srv.Listener(&cliListener{addr: client.Addr()})
	if err := client.Connect(context.Background(), listener); err != nil {
		return err
	}

	fmt.Printf("Relaying %s on :%d (Ctrl-C to stop)\n", client.Addr(), servePort)
	return srv.Start()
}

// devicesCmd manages device names in the config file
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List and name integration IDs",
	Long: `Manage the names given to integration IDs in the config file.

Names can be used wherever an output is expected, e.g. 'lutronctl set kitchen 50'.`,
	Args: cobra.NoArgs,
	RunE: runDevicesList,
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured devices",
	Args:  cobra.NoArgs,
	RunE:  runDevicesList,
}

var devicesNameCmd = &cobra.Command{
	Use:   "name <id> <name>",
	Short: "Name an integration ID",
	Example: `  lutronctl devices name 12 Kitchen --type dimmer --area "Ground Floor"
  lutronctl devices name 31 "Living Room Shade" --type shade`,
	Args: cobra.ExactArgs(2),
	RunE: runDevicesName,
}

var devicesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Forget the name of an integration ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if registry.GetDevice(id) == nil {
			ui.PrintWarning("Nothing to remove", map[string]string{
				"Integration ID": strconv.Itoa(id),
				"Config":         configPath,
			})
			return nil
		}
		name := registry.DeviceName(id)
		registry.RemoveDevice(id)
		if err := registry.SaveTo(configPath); err != nil {
			return err
		}
		ui.PrintSuccess("Device removed", map[string]string{
			"Integration ID": strconv.Itoa(id),
			"Name":           name,
		})
		return nil
	},
}

func init() {
	devicesNameCmd.Flags().StringVar(&deviceType, "type", "", "Device type (dimmer, switch, shade, curtain, led)")
	devicesNameCmd.Flags().StringVar(&deviceArea, "area", "", "Area or room")

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesNameCmd)
	devicesCmd.AddCommand(devicesRemoveCmd)
}

func runDevicesList(cmd *cobra.Command, args []string) error {
	params := map[string]string{"Config": configPath}
	if host, port, err := bridgeTarget(); err == nil {
		params["Bridge"] = fmt.Sprintf("%s:%d", host, port)
	}
	ui.PrintCommandHeader("Devices", "lutronctl devices list", params)

	ids := registry.DeviceIDs()
	if len(ids) == 0 {
		fmt.Println("  No devices configured. Add one with 'lutronctl devices name <id> <name>'.")
		return nil
	}

	for _, id := range ids {
		d := registry.GetDevice(id)
		icon := config.DeviceTypeIcons[d.Type]
		if icon == "" {
			icon = "•"
		}
		line := fmt.Sprintf("  %s %4d  %s", icon, id, ui.DeviceNameStyle.Render(d.Name))
		if d.Type != "" {
			line += "  " + ui.DeviceIDStyle.Render(config.DeviceTypeDefinitions[d.Type])
		}
		if d.Area != "" {
			line += "  " + ui.DeviceIDStyle.Render("("+d.Area+")")
		}
		fmt.Println(line)
	}
	return nil
}

func runDevicesName(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if other, ok := registry.FindDevice(args[1]); ok && other != id {
		return fmt.Errorf("name %q is already used by integration id %d", args[1], other)
	}
	if err := registry.SetDevice(id, args[1], deviceType, deviceArea); err != nil {
		return err
	}
	if err := registry.SaveTo(configPath); err != nil {
		return err
	}
	fmt.Printf("Integration id %d is now %q\n", id, args[1])
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid integration id %q", s)
	}
	return id, nil
}
