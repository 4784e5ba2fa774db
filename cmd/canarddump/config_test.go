//go:build linux

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyphal-can/canard"
)

func Test_loadSubscriptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subs.yaml")
	content := `
- kind: message
  port: 7
  extent: 64
  timeout_sec: 2.0
- kind: request
  port: 100
  extent: 256
  timeout_sec: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	subs, err := loadSubscriptions(path)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "message", subs[0].Kind)
	assert.Equal(t, uint32(7), subs[0].Port)
	assert.Equal(t, 64, subs[0].Extent)

	kind, err := subs[0].transferKind()
	require.NoError(t, err)
	assert.Equal(t, canard.TransferKindMessage, kind)
}

func Test_transferKindUnknown(t *testing.T) {
	c := subscriptionConfig{Kind: "bogus"}
	_, err := c.transferKind()
	assert.Error(t, err)
}

func Test_loadSubscriptionsMissingFile(t *testing.T) {
	_, err := loadSubscriptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
