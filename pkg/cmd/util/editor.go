package util

import (
	"time"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/knownhosts"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// EditorStore resolves where the known_hosts file lives.
type EditorStore interface {
	GetKnownHostsPath(explicit string) (string, error)
	GetKnownHostsPathFromSSHConfig(host string) (string, error)
	GetSSHKeygenTimeout() time.Duration
	GetFileSystem() afero.Fs
}

// GlobalOptions are filled from the root command's persistent flags.
type GlobalOptions struct {
	File         string
	UseSSHConfig bool
	// User selects whose home directory the default paths use.
	User  string
	Debug bool

	// Keygen replaces the ssh-keygen found on PATH.
	Keygen knownhosts.KeygenRunner
	Log    *zap.Logger
}

// OpenEditor opens the known_hosts file selected by opts. An explicit file
// wins over the ssh config lookup, which needs a host.
func OpenEditor(s EditorStore, opts *GlobalOptions, host string) (*knownhosts.Editor, error) {
	var path string
	var err error
	if opts.File == "" && opts.UseSSHConfig && host != "" {
		path, err = s.GetKnownHostsPathFromSSHConfig(host)
	} else {
		path, err = s.GetKnownHostsPath(opts.File)
	}
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	logrus.WithField("path", path).Debug("using known_hosts file")

	editor, err := knownhosts.New(knownhosts.Options{
		Path:          path,
		FS:            s.GetFileSystem(),
		Keygen:        opts.Keygen,
		KeygenTimeout: s.GetSSHKeygenTimeout(),
		Log:           opts.Log,
	})
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return editor, nil
}
