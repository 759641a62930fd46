package main

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyBusName    = "org.freedesktop.Notifications"
	notifyObjectPath = "/org/freedesktop/Notifications"
	notifyMethod     = "org.freedesktop.Notifications.Notify"

	notifyAppName   = "steamtv"
	notifyIcon      = "steam"
	notifyTimeoutMs = 5000
)

// notifier posts desktop notifications over the session bus, so the person
// at the machine sees what a remote controller just did.
type notifier struct {
	conn *dbus.Conn
}

func newNotifier() (*notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	return &notifier{conn: conn}, nil
}

func (n *notifier) close() {
	n.conn.Close()
}

// post sends one transient notification; it replaces nothing and expires on
// its own.
func (n *notifier) post(summary, body string) error {
	obj := n.conn.Object(notifyBusName, notifyObjectPath)
	call := obj.Call(notifyMethod, 0,
		notifyAppName,
		uint32(0), // replaces nothing
		notifyIcon,
		summary,
		body,
		[]string{},                // no actions
		map[string]dbus.Variant{}, // no hints
		int32(notifyTimeoutMs),
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}
