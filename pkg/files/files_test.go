package files

import (
	"os"
	"path/filepath"
	"testing"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
)

type filesTestSuite struct {
	suite.Suite
	fs afero.Fs
}

func (s *filesTestSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()
}

func (s *filesTestSuite) TestResolveKnownHostsPath() {
	s.Equal("/home/me/.ssh/known_hosts", ResolveKnownHostsPath("", "/home/me"))
	s.Equal("relative/kh", ResolveKnownHostsPath("relative/kh", "/home/me"))
}

func (s *filesTestSuite) TestExists() {
	s.Require().NoError(afero.WriteFile(s.fs, "/a/file", []byte("x"), 0o644))

	ok, err := Exists(s.fs, "/a/file", false)
	s.NoError(err)
	s.True(ok)

	ok, err = Exists(s.fs, "/a", true)
	s.NoError(err)
	s.True(ok)

	ok, err = Exists(s.fs, "/a", false)
	s.NoError(err)
	s.False(ok)

	ok, err = Exists(s.fs, "/missing", false)
	s.NoError(err)
	s.False(ok)
}

func (s *filesTestSuite) TestEnsureParentDirCreatesWithRestrictiveMode() {
	s.Require().NoError(s.fs.MkdirAll("/home/me", 0o755))

	s.Require().NoError(EnsureParentDir(s.fs, "/home/me/.ssh/known_hosts"))

	info, err := s.fs.Stat("/home/me/.ssh")
	s.Require().NoError(err)
	s.True(info.IsDir())
	s.Equal(os.FileMode(0o700), info.Mode().Perm())
}

func (s *filesTestSuite) TestEnsureParentDirLeavesExistingAlone() {
	s.Require().NoError(s.fs.MkdirAll("/home/me/.ssh", 0o755))

	s.Require().NoError(EnsureParentDir(s.fs, "/home/me/.ssh/known_hosts"))

	info, err := s.fs.Stat("/home/me/.ssh")
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o755), info.Mode().Perm())
}

func (s *filesTestSuite) TestEnsureParentDirDoesNotCreateGrandparent() {
	fs := afero.NewOsFs()
	root := s.T().TempDir()
	path := filepath.Join(root, "missing", ".ssh", "known_hosts")

	err := EnsureParentDir(fs, path)
	s.Error(err)
	var noFile *breverrors.NoKnownHostsFileError
	s.True(breverrors.As(err, &noFile))
	s.True(breverrors.Is(err, breverrors.ErrKnownHostsEdit))

	_, statErr := os.Stat(filepath.Join(root, "missing"))
	s.True(os.IsNotExist(statErr))
}

func (s *filesTestSuite) TestGetKnownHostsPathFromSSHConfig() {
	config := `Host github.com
  UserKnownHostsFile ~/.ssh/github_known_hosts ~/.ssh/known_hosts2

Host nothing.example
  UserKnownHostsFile none

Host *
  ServerAliveInterval 30
`
	s.Require().NoError(afero.WriteFile(s.fs, "/home/me/.ssh/config", []byte(config), 0o600))

	path, err := GetKnownHostsPathFromSSHConfig(s.fs, "/home/me/.ssh/config", "github.com", "/home/me")
	s.NoError(err)
	s.Equal("/home/me/.ssh/github_known_hosts", path)

	path, err = GetKnownHostsPathFromSSHConfig(s.fs, "/home/me/.ssh/config", "nothing.example", "/home/me")
	s.NoError(err)
	s.Equal("", path)

	path, err = GetKnownHostsPathFromSSHConfig(s.fs, "/home/me/.ssh/config", "gitlab.com", "/home/me")
	s.NoError(err)
	s.Equal("", path)

	path, err = GetKnownHostsPathFromSSHConfig(s.fs, "/home/me/.ssh/absent", "gitlab.com", "/home/me")
	s.NoError(err)
	s.Equal("", path)
}

func TestFiles(t *testing.T) {
	suite.Run(t, new(filesTestSuite))
}
