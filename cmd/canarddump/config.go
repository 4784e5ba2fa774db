//go:build linux

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cyphal-can/canard"
)

// subscriptionConfig is one entry of the YAML subscription file: which
// (kind, port-id) to listen on, how large a payload to keep, and how long
// to wait before giving up on a stalled transfer.
type subscriptionConfig struct {
	Kind       string  `yaml:"kind"` // "message", "request", or "response"
	Port       uint32  `yaml:"port"`
	Extent     int     `yaml:"extent"`
	TimeoutSec float64 `yaml:"timeout_sec"`
}

func (c subscriptionConfig) transferKind() (canard.TransferKind, error) {
	switch c.Kind {
	case "message":
		return canard.TransferKindMessage, nil
	case "request":
		return canard.TransferKindRequest, nil
	case "response":
		return canard.TransferKindResponse, nil
	default:
		return 0, fmt.Errorf("canarddump: unknown subscription kind %q", c.Kind)
	}
}

func loadSubscriptions(path string) ([]subscriptionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("canarddump: read %s: %w", path, err)
	}
	var subs []subscriptionConfig
	if err := yaml.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("canarddump: parse %s: %w", path, err)
	}
	return subs, nil
}
