package sshkeygen

import (
	"os"
	"testing"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]uint32 // path -> mode, 0 creates a directory
		pathEnv string
		want    string
	}{
		{
			name:    "first on PATH",
			files:   map[string]uint32{"/opt/a/ssh-keygen": 0o755, "/opt/b/ssh-keygen": 0o755},
			pathEnv: "/opt/a:/opt/b",
			want:    "/opt/a/ssh-keygen",
		},
		{
			name:    "skips non executable",
			files:   map[string]uint32{"/opt/a/ssh-keygen": 0o644, "/opt/b/ssh-keygen": 0o700},
			pathEnv: "/opt/a:/opt/b",
			want:    "/opt/b/ssh-keygen",
		},
		{
			name:    "other execute bit is enough",
			files:   map[string]uint32{"/opt/a/ssh-keygen": 0o601},
			pathEnv: "/opt/a",
			want:    "/opt/a/ssh-keygen",
		},
		{
			name:    "skips directories and empty entries",
			files:   map[string]uint32{"/opt/a/ssh-keygen": 0, "/opt/b/ssh-keygen": 0o755},
			pathEnv: "::/opt/a:/opt/b",
			want:    "/opt/b/ssh-keygen",
		},
		{
			name:    "falls back to system directories",
			files:   map[string]uint32{"/usr/local/bin/ssh-keygen": 0o755},
			pathEnv: "/nowhere",
			want:    "/usr/local/bin/ssh-keygen",
		},
		{
			name:    "PATH wins over fallback",
			files:   map[string]uint32{"/usr/bin/ssh-keygen": 0o755, "/home/me/bin/ssh-keygen": 0o755},
			pathEnv: "/home/me/bin",
			want:    "/home/me/bin/ssh-keygen",
		},
		{
			name:    "fallback order follows PATH when already listed",
			files:   map[string]uint32{"/usr/bin/ssh-keygen": 0o755, "/bin/ssh-keygen": 0o755},
			pathEnv: "/bin",
			want:    "/bin/ssh-keygen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for path, mode := range tt.files {
				if mode == 0 {
					require.NoError(t, fs.MkdirAll(path, 0o755))
					continue
				}
				require.NoError(t, afero.WriteFile(fs, path, []byte("#!/bin/sh\n"), 0o644))
				require.NoError(t, fs.Chmod(path, os.FileMode(mode)))
			}

			got, err := Find(fs, tt.pathEnv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/usr/bin", 0o755))

	_, err := Find(fs, "/opt/a")
	require.Error(t, err)
	var notFound *breverrors.NoSSHKeygenError
	require.True(t, breverrors.As(err, &notFound))
	assert.Equal(t, []string{"/opt/a", "/usr/bin"}, notFound.SearchPath)
	assert.True(t, breverrors.Is(err, breverrors.ErrKnownHostsEdit))
}
