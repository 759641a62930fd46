package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/brutella/hap"
	haplog "github.com/brutella/hap/log"
)

func runServe(args []string) error {
	opts := parseServeFlags(args)
	if opts.debug {
		haplog.Debug.Enable()
	}

	steam := defaultSteamFiles()

	// Resolve the input set before touching the network; a device with zero
	// inputs is never advertised.
	var inputs []Input
	var err error
	if opts.inputs != "" {
		inputs, err = parseInputList(opts.inputs)
	} else {
		var accounts []steamAccount
		accounts, err = steam.accounts()
		if err == nil {
			inputs, err = inputsFromAccounts(accounts)
		}
	}
	if err != nil {
		return fmt.Errorf("resolve inputs: %w", err)
	}

	// Start on the input Steam would auto-login as, when it maps to one.
	initialID := inputs[0].ID
	if current, err := steam.autoLoginUser(); err == nil {
		if id, ok := matchInput(inputs, current); ok {
			initialID = id
		}
	}

	metrics := newServeMetrics()
	br := &bridge{
		steam:       steam,
		metrics:     metrics,
		processName: steamProcessName,
		terminate:   terminateProcessesByName,
	}
	if opts.notify {
		n, err := newNotifier()
		if err != nil {
			log.Printf("desktop notifications disabled: %v", err)
		} else {
			defer n.close()
			br.notify = n.post
		}
	}

	tv, err := newTelevision(opts.name, inputs, initialID, br.onInput, br.onPower)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.stateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	server, err := hap.NewServer(hap.NewFsStore(opts.stateDir), tv.acc)
	if err != nil {
		return fmt.Errorf("create hap server: %w", err)
	}
	server.Pin = pairingPin

	bind := resolveBindAddress(opts.bind)
	if strings.HasPrefix(bind, "127.") {
		log.Printf("bind address %s is loopback; HomeKit clients on the network cannot reach it", bind)
	}
	server.Addr = joinHostPort(bind, opts.port)

	if opts.statusAddr != "" {
		status := newStatusServer(opts.statusAddr, tv, metrics)
		status.start()
		defer status.shutdown()
	}

	// Graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("shutting down")
		cancel()
	}()

	labels := make([]string, len(inputs))
	for i, in := range inputs {
		labels[i] = in.Label
	}
	log.Printf("pairing code: %s", pairingPinDisplay)
	log.Printf("starting %q on %s with inputs: %s", opts.name, server.Addr, strings.Join(labels, ", "))
	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("hap server: %w", err)
	}
	return nil
}
