package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
)

const (
	loginUsersRelPath = ".local/share/Steam/config/loginusers.vdf"
	registryRelPath   = ".steam/registry.vdf"

	autoLoginKey = "AutoLoginUser"
)

// registryKeyPath is the nesting inside registry.vdf that holds the
// auto-login account.
var registryKeyPath = []string{"Registry", "HKCU", "Software", "Valve", "Steam"}

// steamFiles wraps the two Steam files the accessory touches: the login
// roster (read) and the registry (read-modify-write).
type steamFiles struct {
	loginUsersPath string
	registryPath   string
}

func defaultSteamFiles() *steamFiles {
	home := os.Getenv("HOME")
	return &steamFiles{
		loginUsersPath: filepath.Join(home, loginUsersRelPath),
		registryPath:   filepath.Join(home, registryRelPath),
	}
}

// steamAccount is one entry under "users" in loginusers.vdf.
type steamAccount struct {
	SteamID     string
	AccountName string
	PersonaName string
	Timestamp   int64
}

func parseVDFFile(path string) (map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tree, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tree, nil
}

// accounts reads the login roster, skipping entries without an AccountName
// and ordering the rest most-recent first so the list is stable across runs.
func (s *steamFiles) accounts() ([]steamAccount, error) {
	tree, err := parseVDFFile(s.loginUsersPath)
	if err != nil {
		return nil, err
	}
	users, ok := tree["users"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("no users section in %s", s.loginUsersPath)
	}
	var accounts []steamAccount
	for id, v := range users {
		entry, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := entry["AccountName"].(string)
		if name == "" {
			continue
		}
		acc := steamAccount{SteamID: id, AccountName: name}
		acc.PersonaName, _ = entry["PersonaName"].(string)
		if ts, ok := entry["Timestamp"].(string); ok {
			acc.Timestamp, _ = strconv.ParseInt(ts, 10, 64)
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Timestamp != accounts[j].Timestamp {
			return accounts[i].Timestamp > accounts[j].Timestamp
		}
		return accounts[i].SteamID < accounts[j].SteamID
	})
	return accounts, nil
}

// autoLoginUser reads the account Steam will auto-login as.
func (s *steamFiles) autoLoginUser() (string, error) {
	tree, err := parseVDFFile(s.registryPath)
	if err != nil {
		return "", err
	}
	node, err := steamRegistryNode(tree)
	if err != nil {
		return "", err
	}
	user, ok := node[autoLoginKey].(string)
	if !ok {
		return "", fmt.Errorf("%s not set in %s", autoLoginKey, s.registryPath)
	}
	return user, nil
}

// setAutoLoginUser rewrites registry.vdf with AutoLoginUser pointing at the
// given account. The whole tree is parsed, the single leaf replaced, and the
// file re-encoded, so every other key survives the round trip.
func (s *steamFiles) setAutoLoginUser(account string) error {
	tree, err := parseVDFFile(s.registryPath)
	if err != nil {
		return err
	}
	node, err := steamRegistryNode(tree)
	if err != nil {
		return err
	}
	node[autoLoginKey] = account

	var buf bytes.Buffer
	if err := encodeKeyValues(&buf, tree); err != nil {
		return fmt.Errorf("encode %s: %w", s.registryPath, err)
	}
	return atomicWriteFile(s.registryPath, buf.Bytes(), 0o644)
}

func steamRegistryNode(tree map[string]interface{}) (map[string]interface{}, error) {
	node := tree
	for i, key := range registryKeyPath {
		child, ok := node[key].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("registry key %s missing", strings.Join(registryKeyPath[:i+1], "/"))
		}
		node = child
	}
	return node, nil
}

// atomicWriteFile writes data to a temp file next to the target and renames
// it into place.
func atomicWriteFile(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".steamtv-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
