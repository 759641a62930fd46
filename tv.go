package main

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
)

// television assembles the HAP accessory: one Television service plus a
// linked InputSource per identity, with the remote-update callbacks wired to
// the side-effect handlers. The HAP library calls back from its own
// goroutines and the restore timer adds one more, so the mutable state
// (power, selection, pending timer) sits behind a mutex.
type television struct {
	acc *accessory.A
	svc *service.Television

	onInput func(Input)
	onPower func(bool)

	name         string
	inputs       []Input
	byID         map[int]Input
	restoreDelay time.Duration

	mu       sync.Mutex
	powered  bool
	selected Input
	restore  *time.Timer
}

func newTelevision(name string, inputs []Input, initialID int, onInput func(Input), onPower func(bool)) (*television, error) {
	if len(inputs) == 0 {
		return nil, errors.New("television needs at least one input")
	}

	manufacturer, model, firmware, serial := accessoryInfo()
	acc := accessory.New(accessory.Info{
		Name:         name,
		SerialNumber: serial,
		Manufacturer: manufacturer,
		Model:        model,
		Firmware:     firmware,
	}, accessory.TypeTelevision)
	acc.Id = 1

	t := &television{
		acc:          acc,
		onInput:      onInput,
		onPower:      onPower,
		name:         name,
		inputs:       inputs,
		byID:         make(map[int]Input, len(inputs)),
		restoreDelay: powerRestoreDelay,
	}
	for _, in := range inputs {
		t.byID[in.ID] = in
	}
	t.selected = inputs[0]
	if in, ok := t.byID[initialID]; ok {
		t.selected = in
	}

	svc := service.NewTelevision()
	svc.Primary = true
	svc.ConfiguredName.SetValue(name)
	svc.SleepDiscoveryMode.SetValue(characteristic.SleepDiscoveryModeAlwaysDiscoverable)
	svc.Active.SetValue(characteristic.ActiveInactive)
	svc.ActiveIdentifier.SetValue(t.selected.ID)
	name2 := characteristic.NewName()
	name2.SetValue(name)
	svc.AddC(name2.C)
	svc.Active.OnValueRemoteUpdate(func(v int) {
		t.setPower(v == characteristic.ActiveActive)
	})
	svc.ActiveIdentifier.OnValueRemoteUpdate(t.selectInput)
	acc.AddS(svc.S)
	t.svc = svc

	for _, in := range inputs {
		src := newInputSource(in)
		acc.AddS(src.S)
		svc.AddS(src.S)
	}
	return t, nil
}

// newInputSource builds one InputSource service, preloading the optional
// Identifier, Name and TargetVisibilityState characteristics since HomeKit
// clients disagree on which ones they read.
func newInputSource(in Input) *service.InputSource {
	src := service.NewInputSource()
	id := characteristic.NewIdentifier()
	id.SetValue(in.ID)
	src.AddC(id.C)
	src.ConfiguredName.SetValue(in.Label)
	name := characteristic.NewName()
	name.SetValue(in.Label)
	src.AddC(name.C)
	src.IsConfigured.SetValue(characteristic.IsConfiguredConfigured)
	src.CurrentVisibilityState.SetValue(characteristic.CurrentVisibilityStateShown)
	target := characteristic.NewTargetVisibilityState()
	target.SetValue(characteristic.TargetVisibilityStateShown)
	src.AddC(target.C)
	src.InputSourceType.SetValue(guessInputType(in.Label))
	return src
}

// setPower handles a power write. Every off transition reports power-off and
// arms the auto-restore timer; the handler runs regardless of the previous
// value, so repeated off writes each take effect.
func (t *television) setPower(on bool) {
	t.mu.Lock()
	if t.restore != nil {
		t.restore.Stop()
		t.restore = nil
	}
	t.powered = on
	t.mu.Unlock()

	if on {
		log.Printf("power on")
	} else {
		log.Printf("power off")
	}
	t.onPower(on)

	if !on {
		t.mu.Lock()
		if !t.powered {
			t.restore = time.AfterFunc(t.restoreDelay, t.restorePower)
		}
		t.mu.Unlock()
	}
}

// restorePower flips the accessory back to on after the off delay, so the
// tile in the Home app stays usable for repeated switches.
func (t *television) restorePower() {
	t.mu.Lock()
	t.restore = nil
	if t.powered {
		t.mu.Unlock()
		return
	}
	t.powered = true
	t.mu.Unlock()

	t.svc.Active.SetValue(characteristic.ActiveActive)
	log.Printf("auto-restored power on")
	t.onPower(true)
}

// selectInput handles an ActiveIdentifier write. Identifiers outside the
// input set are ignored; the library normally rejects them before we see one.
func (t *television) selectInput(id int) {
	t.mu.Lock()
	in, ok := t.byID[id]
	if ok {
		t.selected = in
	}
	t.mu.Unlock()

	if !ok {
		log.Printf("ignoring unknown input identifier %d", id)
		return
	}
	log.Printf("input selected: %s (id=%d, slug=%s)", in.Label, in.ID, in.Slug)
	t.onInput(in)
}

// tvStatus is the snapshot served by the status endpoint.
type tvStatus struct {
	Name         string `json:"name"`
	Powered      bool   `json:"powered"`
	SelectedID   int    `json:"selected_id"`
	SelectedSlug string `json:"selected_slug"`
	Inputs       int    `json:"inputs"`
}

func (t *television) status() tvStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tvStatus{
		Name:         t.name,
		Powered:      t.powered,
		SelectedID:   t.selected.ID,
		SelectedSlug: t.selected.Slug,
		Inputs:       len(t.inputs),
	}
}
