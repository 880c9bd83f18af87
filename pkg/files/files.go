package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/kevinburke/ssh_config"
	"github.com/spf13/afero"
)

const (
	sshDirectory       = ".ssh"
	knownHostsFileName = "known_hosts"
	sshConfigFileName  = "config"
	sshDirPerm         = 0o700
)

func GetKnownHostsPath(home string) string {
	return filepath.Join(home, sshDirectory, knownHostsFileName)
}

func GetUserSSHConfigPath(home string) string {
	return filepath.Join(home, sshDirectory, sshConfigFileName)
}

// ResolveKnownHostsPath returns explicit verbatim when set, the default
// location under home otherwise. Existence is not checked.
func ResolveKnownHostsPath(explicit string, home string) string {
	if explicit != "" {
		return explicit
	}
	return GetKnownHostsPath(home)
}

func Exists(fs afero.Fs, path string, isDir bool) (bool, error) {
	info, err := fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	return info.IsDir() == isDir, nil
}

// EnsureParentDir creates the directory holding path with mode 0700 when it
// is missing. Only that one level is created, never its ancestors.
func EnsureParentDir(fs afero.Fs, path string) error {
	parent := filepath.Dir(path)
	_, err := fs.Stat(parent)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return breverrors.WrapAndTrace(&breverrors.NoKnownHostsFileError{Path: path, Err: err})
	}
	if err := fs.Mkdir(parent, sshDirPerm); err != nil {
		return breverrors.WrapAndTrace(&breverrors.NoKnownHostsFileError{Path: path, Err: err})
	}
	// Mkdir is subject to the umask
	if err := fs.Chmod(parent, sshDirPerm); err != nil {
		return breverrors.WrapAndTrace(&breverrors.NoKnownHostsFileError{Path: path, Err: err})
	}
	return nil
}

// GetKnownHostsPathFromSSHConfig returns the first UserKnownHostsFile that
// the ssh config at configPath applies to host, with ~ expanded against home.
// It returns "" when the config file is missing or sets nothing for host.
func GetKnownHostsPathFromSSHConfig(fs afero.Fs, configPath string, host string, home string) (string, error) {
	f, err := fs.Open(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	defer f.Close() //nolint:errcheck // read only

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return "", breverrors.WrapAndTrace(err, "parsing", configPath)
	}
	value, err := cfg.Get(host, "UserKnownHostsFile")
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	// several files may be listed; edits go to the first
	fields := strings.Fields(value)
	if len(fields) == 0 || strings.EqualFold(fields[0], "none") {
		return "", nil
	}
	return expandHome(fields[0], home), nil
}

func expandHome(path string, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
