package main

import (
	"net"
	"path/filepath"
	"strings"
	"testing"
)

func clearAccessoryEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HOMEKIT_TV_NAME", "HOMEKIT_TV_MFR", "HOMEKIT_TV_MODEL", "HOMEKIT_TV_FW", "HOMEKIT_TV_SN"} {
		t.Setenv(key, "")
	}
}

func TestParseServeFlagsDefaults(t *testing.T) {
	clearAccessoryEnv(t)

	opts := parseServeFlags(nil)
	if opts.name != defaultName {
		t.Fatalf("name = %q, want %q", opts.name, defaultName)
	}
	if opts.port != defaultPort {
		t.Fatalf("port = %d, want %d", opts.port, defaultPort)
	}
	if opts.bind != "auto" {
		t.Fatalf("bind = %q, want auto", opts.bind)
	}
	if opts.inputs != "" || opts.statusAddr != "" || opts.debug {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if !opts.notify {
		t.Fatalf("notifications should default on")
	}
	if opts.stateDir != defaultStateDir() {
		t.Fatalf("state dir = %q, want %q", opts.stateDir, defaultStateDir())
	}
}

func TestParseServeFlagsOverrides(t *testing.T) {
	clearAccessoryEnv(t)

	opts := parseServeFlags([]string{
		"--name", "Living Room Steam",
		"--port", "52000",
		"--bind", "192.168.1.20",
		"--inputs", "Alice, Bob",
		"--state-dir", "/tmp/steamtv-test",
		"--status-addr", "127.0.0.1:9100",
		"--debug",
		"--no-notify",
	})
	if opts.name != "Living Room Steam" || opts.port != 52000 || opts.bind != "192.168.1.20" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.inputs != "Alice, Bob" || opts.stateDir != "/tmp/steamtv-test" || opts.statusAddr != "127.0.0.1:9100" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if !opts.debug || opts.notify {
		t.Fatalf("unexpected toggles: %+v", opts)
	}
}

func TestParseServeFlagsNameFromEnv(t *testing.T) {
	t.Setenv("HOMEKIT_TV_NAME", "Den TV")

	opts := parseServeFlags(nil)
	if opts.name != "Den TV" {
		t.Fatalf("name = %q, want env value", opts.name)
	}

	opts = parseServeFlags([]string{"--name", "Explicit"})
	if opts.name != "Explicit" {
		t.Fatalf("flag should win over env, got %q", opts.name)
	}
}

func TestDefaultStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	if got := defaultStateDir(); got != filepath.Join("/var/state", "steamtv") {
		t.Fatalf("state dir = %q", got)
	}

	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/tester")
	if got := defaultStateDir(); got != filepath.Join("/home/tester", ".local", "state", "steamtv") {
		t.Fatalf("state dir = %q", got)
	}
}

func TestResolveBindAddress(t *testing.T) {
	if got := resolveBindAddress("192.168.1.20"); got != "192.168.1.20" {
		t.Fatalf("explicit bind = %q", got)
	}
	for _, bind := range []string{"auto", "", "0.0.0.0"} {
		got := resolveBindAddress(bind)
		if net.ParseIP(got) == nil {
			t.Fatalf("resolveBindAddress(%q) = %q, not an IP", bind, got)
		}
	}
}

func TestAccessoryInfoEnvOverrides(t *testing.T) {
	clearAccessoryEnv(t)

	manufacturer, model, firmware, _ := accessoryInfo()
	if manufacturer != defaultManufacturer || model != defaultModel || firmware != defaultFirmware {
		t.Fatalf("unexpected defaults: %q %q %q", manufacturer, model, firmware)
	}

	t.Setenv("HOMEKIT_TV_MFR", "ACME")
	t.Setenv("HOMEKIT_TV_MODEL", "TV-1000")
	t.Setenv("HOMEKIT_TV_FW", "2.3")
	t.Setenv("HOMEKIT_TV_SN", "SN-42")
	manufacturer, model, firmware, serial := accessoryInfo()
	if manufacturer != "ACME" || model != "TV-1000" || firmware != "2.3" || serial != "SN-42" {
		t.Fatalf("env overrides not applied: %q %q %q %q", manufacturer, model, firmware, serial)
	}
}

func TestDefaultSerialShape(t *testing.T) {
	serial := defaultSerial()
	if !strings.HasPrefix(serial, "TV-") {
		t.Fatalf("serial = %q, want TV- prefix", serial)
	}
	hex := strings.TrimPrefix(serial, "TV-")
	if len(hex) != 12 {
		t.Fatalf("serial = %q, want 12 hex digits after the prefix", serial)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("serial = %q contains non-hex %q", serial, r)
		}
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("STEAMTV_TEST_KEY", "")
	if got := getEnv("STEAMTV_TEST_KEY", "fallback"); got != "fallback" {
		t.Fatalf("getEnv = %q, want fallback", got)
	}
	t.Setenv("STEAMTV_TEST_KEY", "set")
	if got := getEnv("STEAMTV_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("getEnv = %q, want set", got)
	}
}

func TestJoinHostPort(t *testing.T) {
	if got := joinHostPort("192.168.1.20", 51826); got != "192.168.1.20:51826" {
		t.Fatalf("joinHostPort = %q", got)
	}
}
