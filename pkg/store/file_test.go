package store

import (
	"os/user"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestWithFileSystem(t *testing.T) {
	fs := MakeMockFileStore()
	if !assert.NotNil(t, fs) {
		return
	}
	assert.NotNil(t, fs.GetFileSystem())
}

func MakeMockFileStore() *FileStore {
	bs := MakeMockBasicStore()
	fs := bs.WithFileSystem(afero.NewMemMapFs())
	return fs
}

func TestWithUserID(t *testing.T) {
	current, err := user.Current()
	if err != nil {
		t.Skipf("no current user: %v", err)
	}

	byName := MakeMockFileStore().WithUserID(current.Username)
	if assert.NotNil(t, byName.User) {
		assert.Equal(t, current.HomeDir, byName.User.HomeDir)
	}
	home, err := byName.UserHomeDir()
	assert.NoError(t, err)
	assert.Equal(t, current.HomeDir, home)

	byID := MakeMockFileStore().WithUserID(current.Uid)
	if assert.NotNil(t, byID.User) {
		assert.Equal(t, current.HomeDir, byID.User.HomeDir)
	}
}
