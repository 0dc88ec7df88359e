package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/winery/internal/cli"
)

func TestTransitionsCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"transitions"})
	require.NoError(t, cmd.Execute())

	var rows []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		rows = append(rows, strings.Join(strings.Fields(line), " "))
	}
	assert.Equal(t, []string{
		"FROM TO",
		"ACTIVE DECLINE, SLOW, COMPLETED, STUCK",
		"LAG ACTIVE, STUCK",
		"DECLINE SLOW, STUCK, COMPLETED",
		"SLOW ACTIVE, STUCK, COMPLETED",
		"STUCK (terminal)",
		"COMPLETED (terminal)",
	}, rows)
}

func TestImportCommand_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing flags",
			args:    []string{"import"},
			wantErr: `required flag(s) "fermentation", "source" not set`,
		},
		{
			name:    "invalid fermentation id",
			args:    []string{"import", "--fermentation", "tank-4", "--source", "tank-4.csv"},
			wantErr: cli.ErrInvalidFermentation.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			cmd := cli.NewRootCommand()
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootCommand_Help(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	for _, sub := range []string{"migrate", "import", "transitions"} {
		assert.Contains(t, out.String(), sub)
	}
}
