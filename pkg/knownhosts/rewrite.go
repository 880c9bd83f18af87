package knownhosts

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// rewrite copies every line of path for which drop returns false into a
// scratch file next to it and renames the scratch file over path. Kept lines
// are copied byte for byte. It returns the number of dropped lines; when
// nothing is dropped path is left untouched.
func rewrite(fs afero.Fs, path string, drop func(line string) bool) (removed int, err error) {
	src, err := fs.Open(path)
	if err != nil {
		return 0, breverrors.WrapAndTrace(&breverrors.NoKnownHostsFileError{Path: path, Err: err})
	}
	defer src.Close() //nolint:errcheck // read only

	tmp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return 0, breverrors.WrapAndTrace(&breverrors.NoKnownHostsFileError{Path: path, Err: err})
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if renamed {
			return
		}
		_ = tmp.Close()
		if rmErr := fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = multierror.Append(err, breverrors.NewKnownHostsEditError("remove scratch file", tmpName, rmErr))
		}
	}()

	r := bufio.NewReader(src)
	w := bufio.NewWriter(tmp)
	for {
		line, readErr := r.ReadString('\n')
		if line != "" {
			if drop(line) {
				removed++
			} else if _, err := w.WriteString(line); err != nil {
				return 0, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("write", tmpName, err))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("read", path, readErr))
		}
	}
	if removed == 0 {
		return 0, nil
	}

	if err := w.Flush(); err != nil {
		return 0, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("write", tmpName, err))
	}
	if err := tmp.Close(); err != nil {
		return 0, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("close", tmpName, err))
	}
	// cosmetic, the rewrite stands even if the mode cannot be copied
	if info, statErr := fs.Stat(path); statErr == nil {
		_ = fs.Chmod(tmpName, info.Mode().Perm())
	}
	if err := fs.Rename(tmpName, path); err != nil {
		return 0, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("rename", tmpName, err))
	}
	renamed = true
	return removed, nil
}
