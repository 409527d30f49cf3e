package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]string)
	for _, c := range root.Commands() {
		names[c.Name()] = c.GroupID
	}

	assert.Equal(t, "main", names["activity"])
	assert.Equal(t, "main", names["deposit"])
	assert.Equal(t, "main", names["cancel"])
	assert.Equal(t, "management", names["account"])
	assert.Equal(t, "management", names["networks"])
	assert.Contains(t, names, "version")
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"debug", "non-interactive", "json", "network"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "n", root.PersistentFlags().Lookup("network").Shorthand)
}

func TestCommandFlags(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		command string
		flags   []string
	}{
		{"activity", []string{"filter", "output", "interactive", "select-filter", "refresh"}},
		{"deposit", []string{"wrap", "strategy", "yes"}},
		{"cancel", []string{"yes"}},
		{"account", []string{"backend"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tt.command})
			require.NoError(t, err)
			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
			}
		})
	}
}

func TestDepositRequiresAmount(t *testing.T) {
	root := NewRootCmd()
	cmd, _, err := root.Find([]string{"deposit"})
	require.NoError(t, err)

	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"1.5"}))
	assert.Error(t, cmd.Args(cmd, []string{"1", "2"}))
}

func TestVersionSkipsAppInit(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "vaultctl version dev")
}
