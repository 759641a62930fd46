package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultName         = "Steam Switcher"
	defaultManufacturer = "HomeSteam"
	defaultModel        = "Steam User Switcher"
	defaultFirmware     = "1.0"
	defaultPort         = 51826

	// Fixed pairing PIN, logged in the grouped form HomeKit shows on screen.
	pairingPin        = "11111111"
	pairingPinDisplay = "111-11-111"

	// Address dialed (UDP, no traffic sent) to discover the primary LAN IPv4.
	lanProbeAddr = "8.8.8.8:80"

	steamProcessName  = "steam"
	powerRestoreDelay = 2 * time.Second
)

// serveOptions holds everything the serve subcommand needs, resolved from
// flags with env-backed defaults.
type serveOptions struct {
	name       string
	port       int
	bind       string
	inputs     string
	stateDir   string
	statusAddr string
	debug      bool
	notify     bool
}

func parseServeFlags(args []string) *serveOptions {
	opts := &serveOptions{}
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.StringVar(&opts.name, "name", getEnv("HOMEKIT_TV_NAME", defaultName), "accessory display name")
	fs.IntVar(&opts.port, "port", defaultPort, "TCP port for the HAP server")
	fs.StringVar(&opts.bind, "bind", "auto", `bind/advertise address ("auto" detects the LAN IPv4)`)
	fs.StringVar(&opts.inputs, "inputs", "", "comma-separated input labels (overrides Steam account detection)")
	fs.StringVar(&opts.stateDir, "state-dir", defaultStateDir(), "directory for pairing state")
	fs.StringVar(&opts.statusAddr, "status-addr", "", "optional listen address for the status/metrics endpoint")
	fs.BoolVar(&opts.debug, "debug", false, "verbose logging, including the HAP library")
	noNotify := fs.Bool("no-notify", false, "disable desktop notifications")
	fs.Parse(args)
	opts.notify = !*noNotify
	return opts
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultStateDir resolves the pairing-state directory under XDG_STATE_HOME,
// falling back to ~/.local/state.
func defaultStateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(dir, "steamtv")
}

// resolveBindAddress picks the address the HAP server binds and advertises.
// An explicit address is returned directly; "auto" (and the unspecified
// forms) triggers LAN detection.
func resolveBindAddress(bind string) string {
	switch bind {
	case "auto", "", "0.0.0.0":
		return detectLANIP()
	}
	return bind
}

// detectLANIP finds the primary LAN IPv4 by dialing a UDP socket toward a
// well-known address and reading the chosen local address. Nothing is sent.
func detectLANIP() string {
	conn, err := net.Dial("udp", lanProbeAddr)
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}

// accessoryInfo resolves the AccessoryInformation fields, all of which can be
// overridden through the environment.
func accessoryInfo() (manufacturer, model, firmware, serial string) {
	manufacturer = getEnv("HOMEKIT_TV_MFR", defaultManufacturer)
	model = getEnv("HOMEKIT_TV_MODEL", defaultModel)
	firmware = getEnv("HOMEKIT_TV_FW", defaultFirmware)
	serial = getEnv("HOMEKIT_TV_SN", defaultSerial())
	return
}

// defaultSerial derives a stable serial from the first non-loopback
// interface's MAC address.
func defaultSerial() string {
	ifaces, err := net.Interfaces()
	if err == nil {
		for _, ifc := range ifaces {
			if ifc.Flags&net.FlagLoopback != 0 || len(ifc.HardwareAddr) < 6 {
				continue
			}
			return fmt.Sprintf("TV-%x", []byte(ifc.HardwareAddr[:6]))
		}
	}
	return "TV-000000000000"
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
