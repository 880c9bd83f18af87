package store

import (
	"time"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/files"
)

// GetKnownHostsPath resolves, in order: explicit, KNOWN_HOSTS_EDIT_FILE, and
// ~/.ssh/known_hosts of the configured user.
func (f FileStore) GetKnownHostsPath(explicit string) (string, error) {
	if explicit == "" {
		explicit = f.b.config.GetKnownHostsFile()
	}
	if explicit != "" {
		return explicit, nil
	}
	home, err := f.UserHomeDir()
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	return files.ResolveKnownHostsPath("", home), nil
}

func (f FileStore) GetUserSSHConfigPath() (string, error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	return files.GetUserSSHConfigPath(home), nil
}

// GetKnownHostsPathFromSSHConfig looks up UserKnownHostsFile for host in the
// user's ssh config and falls back to GetKnownHostsPath("") when unset.
func (f FileStore) GetKnownHostsPathFromSSHConfig(host string) (string, error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	path, err := files.GetKnownHostsPathFromSSHConfig(f.fs, files.GetUserSSHConfigPath(home), host, home)
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	if path != "" {
		return path, nil
	}
	return f.GetKnownHostsPath("")
}

func (f FileStore) GetSSHKeygenTimeout() time.Duration {
	return f.b.config.GetSSHKeygenTimeout()
}
