package main

import (
	"fmt"
	"log"
)

// bridge turns accessory callbacks into side effects on the local machine:
// rewriting Steam's auto-login user and restarting the Steam process. Both
// are best effort at runtime; failures are logged and counted, never
// propagated back into the accessory.
type bridge struct {
	steam       *steamFiles
	metrics     *serveMetrics
	processName string
	terminate   func(name string) (int, error)
	notify      func(summary, body string) error // nil when notifications are off
}

// onInput writes the selected slug to Steam's auto-login config. The
// accessory keeps its new selection even when the write fails; the next
// successful write converges the two.
func (b *bridge) onInput(in Input) {
	if err := b.steam.setAutoLoginUser(in.Slug); err != nil {
		log.Printf("set auto-login user to %s: %v", in.Slug, err)
		b.metrics.writeFailures.Inc()
		return
	}
	log.Printf("auto-login user set to %s", in.Slug)
	b.metrics.switches.WithLabelValues(in.Slug).Inc()
	b.post("Steam account switched", fmt.Sprintf("%s logs in next. Switch the TV off to restart Steam.", in.Label))
}

// onPower restarts Steam on every off transition; auto-login does the rest
// on the next launch. Power-on needs no side effect.
func (b *bridge) onPower(on bool) {
	if on {
		return
	}
	b.metrics.terminations.Inc()
	n, err := b.terminate(b.processName)
	if err != nil {
		log.Printf("stop %s: %v", b.processName, err)
		return
	}
	log.Printf("sent SIGTERM to %d %s processes", n, b.processName)
	b.post("Stopping Steam", "Steam will restart with the selected account.")
}

func (b *bridge) post(summary, body string) {
	if b.notify == nil {
		return
	}
	if err := b.notify(summary, body); err != nil {
		log.Printf("desktop notification: %v", err)
		b.metrics.notifyFailures.Inc()
	}
}
