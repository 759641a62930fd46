package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Input is one selectable identity on the television: a HAP identifier, the
// label shown in the Home app, and the slug written to Steam's auto-login
// key. The set is fixed at startup; slugs are unique and non-empty.
type Input struct {
	ID    int
	Label string
	Slug  string
}

// slugify reduces a label to the lowercase alphanumerics that survive as an
// account slug.
func slugify(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseInputList builds inputs from a comma-separated label list.
// Identifiers are assigned in order starting at 1, labels are kept verbatim,
// and slugs are derived from the labels.
func parseInputList(raw string) ([]Input, error) {
	var inputs []Input
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		slug := slugify(label)
		if slug == "" {
			return nil, fmt.Errorf("input label %q produces an empty slug", label)
		}
		if seen[slug] {
			return nil, fmt.Errorf("duplicate input slug %q", slug)
		}
		seen[slug] = true
		inputs = append(inputs, Input{ID: len(inputs) + 1, Label: label, Slug: slug})
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no usable input labels in %q", raw)
	}
	return inputs, nil
}

// inputsFromAccounts turns detected Steam accounts into the input list.
// Labels prefer the persona name; slugs are the account names AutoLoginUser
// expects.
func inputsFromAccounts(accounts []steamAccount) ([]Input, error) {
	var inputs []Input
	seen := make(map[string]bool)
	for _, acc := range accounts {
		label := acc.PersonaName
		if label == "" {
			label = acc.AccountName
		}
		if seen[acc.AccountName] {
			return nil, fmt.Errorf("duplicate steam account %q in loginusers.vdf", acc.AccountName)
		}
		seen[acc.AccountName] = true
		inputs = append(inputs, Input{ID: len(inputs) + 1, Label: label, Slug: acc.AccountName})
	}
	if len(inputs) == 0 {
		return nil, errors.New("no steam accounts found in loginusers.vdf")
	}
	return inputs, nil
}

// matchInput finds the input whose slug equals the given account name.
func matchInput(inputs []Input, slug string) (int, bool) {
	for _, in := range inputs {
		if in.Slug == slug {
			return in.ID, true
		}
	}
	return 0, false
}

// guessInputType maps a human label onto the closest HAP input source type:
// 0 Other, 1 HomeScreen, 2 Tuner, 3 HDMI, 4 CompositeVideo, 5 SVideo,
// 6 ComponentVideo, 7 DVI, 8 AirPlay, 9 USB, 10 Application.
func guessInputType(label string) int {
	s := strings.ToLower(label)
	switch {
	case strings.Contains(s, "hdmi"):
		return 3
	case strings.Contains(s, "airplay"), strings.Contains(s, "cast"):
		return 8
	case strings.Contains(s, "app"):
		return 10
	case strings.Contains(s, "usb"):
		return 9
	case strings.Contains(s, "dvi"):
		return 7
	case strings.Contains(s, "component"):
		return 6
	case strings.Contains(s, "svideo"):
		return 5
	case strings.Contains(s, "composite"), s == "av", s == "video":
		return 4
	case s == "tuner", s == "tv", s == "antenna":
		return 2
	case strings.Contains(s, "home"):
		return 1
	}
	return 0
}
