package editor

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOpener(env map[string]string, installed ...string) *Opener {
	return &Opener{
		getenv: func(k string) string { return env[k] },
		lookPath: func(name string) (string, error) {
			for _, i := range installed {
				if i == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", exec.ErrNotFound
		},
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		installed []string
		wantArgs  []string
	}{
		{
			name:     "editor with arguments",
			env:      map[string]string{"EDITOR": "code --wait", "VISUAL": "vim"},
			wantArgs: []string{"code", "--wait", "/m/section/society.json"},
		},
		{
			name:     "visual when editor is unset",
			env:      map[string]string{"VISUAL": "emacs"},
			wantArgs: []string{"emacs", "/m/section/society.json"},
		},
		{
			name:      "first installed fallback",
			installed: []string{"nano", "vi"},
			wantArgs:  []string{"/usr/bin/vi", "/m/section/society.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := fakeOpener(tt.env, tt.installed...).Command("/m/section/society.json")
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestCommandNoEditor(t *testing.T) {
	_, err := fakeOpener(nil).Command("/m/x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no editor found")
}
