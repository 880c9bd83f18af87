package store

import (
	"os"
	"os/user"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/spf13/afero"
)

type FileStore struct {
	b    BasicStore
	fs   afero.Fs
	User *user.User
}

func (b *BasicStore) WithFileSystem(fs afero.Fs) *FileStore {
	return &FileStore{*b, fs, nil}
}

// WithUserID edits the files of another user, looked up by name or uid.
func (f *FileStore) WithUserID(userID string) *FileStore {
	var userToConfigure *user.User
	var err error
	userToConfigure, err = user.Lookup(userID)
	if err != nil {
		_, ok := err.(user.UnknownUserError)
		if ok {
			userToConfigure, _ = user.LookupId(userID)
		}
	}
	f.User = userToConfigure
	return f
}

func (f FileStore) GetFileSystem() afero.Fs {
	return f.fs
}

func (f FileStore) UserHomeDir() (string, error) {
	if f.User != nil {
		return f.User.HomeDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	return home, nil
}
