package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
)

// accountListing is one row of `steamtv accounts` output.
type accountListing struct {
	Label   string `json:"label"`
	Slug    string `json:"slug"`
	Current bool   `json:"current,omitempty"`
}

// runAccounts prints the identity list the accessory would expose, marking
// the account Steam currently auto-logs into.
func runAccounts() error {
	steam := defaultSteamFiles()
	accounts, err := steam.accounts()
	if err != nil {
		return fmt.Errorf("read steam accounts: %w", err)
	}
	inputs, err := inputsFromAccounts(accounts)
	if err != nil {
		return err
	}
	current, _ := steam.autoLoginUser()

	listing := make([]accountListing, len(inputs))
	for i, in := range inputs {
		listing[i] = accountListing{Label: in.Label, Slug: in.Slug, Current: in.Slug == current}
	}
	return json.NewEncoder(os.Stdout).Encode(listing)
}

// runReset wipes the pairing state. Previously paired controllers are
// rejected afterwards until they pair again.
func runReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	stateDir := fs.String("state-dir", defaultStateDir(), "directory for pairing state")
	fs.Parse(args)

	if err := os.RemoveAll(*stateDir); err != nil {
		return fmt.Errorf("remove state dir: %w", err)
	}
	if err := os.MkdirAll(*stateDir, 0o700); err != nil {
		return fmt.Errorf("recreate state dir: %w", err)
	}
	log.Printf("pairing state cleared: %s", *stateDir)
	return nil
}
