package sshkeygen

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const executableName = "ssh-keygen"

// searched after PATH when present on the system and not already listed
var fallbackDirs = []string{"/usr/bin", "/bin", "/usr/local/bin"}

// Find returns the first ssh-keygen in pathEnv (a PATH style list) or the
// fallback system directories that is a regular file with an execute bit set.
func Find(fs afero.Fs, pathEnv string) (string, error) {
	dirs := searchDirs(fs, pathEnv)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, executableName)
		info, err := fs.Stat(candidate)
		if err != nil {
			if skippable(err) {
				continue
			}
			return "", breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("stat", candidate, err))
		}
		if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return candidate, nil
	}
	return "", breverrors.WrapAndTrace(&breverrors.NoSSHKeygenError{SearchPath: dirs})
}

func searchDirs(fs afero.Fs, pathEnv string) []string {
	dirs := filepath.SplitList(pathEnv)
	for _, d := range fallbackDirs {
		if lo.Contains(dirs, d) {
			continue
		}
		if ok, _ := afero.Exists(fs, d); ok {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func skippable(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, syscall.ENOTDIR)
}
