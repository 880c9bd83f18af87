// Package knownhosts adds and removes entries of an OpenSSH known_hosts file.
//
// An Editor is bound to one file for its lifetime. When the file already
// contains hashed hostnames new entries are hashed as well. Hashing and
// hashed-aware lookups are delegated to a KeygenRunner, normally ssh-keygen.
package knownhosts

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/files"
	"github.com/brevdev/known-hosts-edit/pkg/sshkeygen"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// KeygenRunner searches, hashes and removes known_hosts entries without the
// caller knowing the hashing scheme.
type KeygenRunner interface {
	// Search returns the full lines of knownHostsPath matching host.
	Search(ctx context.Context, host string, knownHostsPath string) ([]string, error)
	// SearchKeys is Search reduced to the "keytype key-material" of each line.
	SearchKeys(ctx context.Context, host string, knownHostsPath string) ([]string, error)
	// HashLine returns the hashed entry line for host and publicKey.
	HashLine(ctx context.Context, host string, publicKey string) (string, error)
	// Remove deletes all entries of host from knownHostsPath in place.
	Remove(ctx context.Context, host string, knownHostsPath string) error
}

var _ KeygenRunner = &sshkeygen.Keygen{}

// Options configures New. Zero values select the defaults noted per field.
type Options struct {
	// Path overrides the default ~/.ssh/known_hosts.
	Path string
	// HomeDir is used for the default path, the current user's when empty.
	HomeDir string
	// FS defaults to the OS filesystem.
	FS afero.Fs
	// Keygen defaults to the ssh-keygen found on PathEnv.
	Keygen        KeygenRunner
	KeygenTimeout time.Duration
	// PathEnv defaults to $PATH.
	PathEnv string
	Log     *zap.Logger
}

// Editor edits a single known_hosts file.
type Editor struct {
	path   string
	fs     afero.Fs
	keygen KeygenRunner
	hashed bool
	log    *zap.Logger
}

// New resolves the known_hosts path and ssh-keygen and detects whether the
// file uses hashed hostnames. None of these are looked at again later.
func New(opts Options) (*Editor, error) {
	e := &Editor{
		path:   opts.Path,
		fs:     opts.FS,
		keygen: opts.Keygen,
		log:    opts.Log,
	}
	if e.fs == nil {
		e.fs = afero.NewOsFs()
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}

	if e.path == "" {
		home := opts.HomeDir
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return nil, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("resolve home directory", "", err))
			}
		}
		e.path = files.ResolveKnownHostsPath("", home)
	}

	if e.keygen == nil {
		pathEnv := opts.PathEnv
		if pathEnv == "" {
			pathEnv = os.Getenv("PATH")
		}
		exe, err := sshkeygen.Find(e.fs, pathEnv)
		if err != nil {
			return nil, breverrors.WrapAndTrace(err)
		}
		e.keygen = sshkeygen.New(exe, opts.KeygenTimeout, e.log.Named("ssh-keygen"))
	}

	hashed, err := IsHashed(e.fs, e.path)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	e.hashed = hashed

	e.log.Debug("opened known_hosts", zap.String("path", e.path), zap.Bool("hashed", e.hashed))
	return e, nil
}

func (e *Editor) Path() string {
	return e.path
}

// IsHashed reports whether new entries are written with hashed hostnames.
func (e *Editor) IsHashed() bool {
	return e.hashed
}

// Add appends an entry for host and publicKey unless that key is already
// known for host. Comments on publicKey are dropped. It reports whether the
// file was changed.
func (e *Editor) Add(ctx context.Context, host string, publicKey string) (bool, error) {
	key := NormalizeKey(publicKey)
	if strings.TrimSpace(host) == "" || key == "" {
		return false, breverrors.WrapAndTrace(breverrors.NewValidationError("a host and a public key are required to add an entry"))
	}

	known, err := e.hostKeys(ctx, host)
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	if lo.Contains(known, key) {
		e.log.Debug("host key already known", zap.String("host", host), zap.String("fingerprint", Fingerprint(key)))
		return false, nil
	}

	line := host + " " + key
	if e.hashed {
		line, err = e.keygen.HashLine(ctx, host, key)
		if err != nil {
			return false, breverrors.WrapAndTrace(err)
		}
	}
	if err := e.appendLine(line); err != nil {
		return false, breverrors.WrapAndTrace(err)
	}

	e.log.Info("added host key",
		zap.String("host", host),
		zap.String("fingerprint", Fingerprint(key)),
		zap.Bool("hashed", e.hashed))
	return true, nil
}

// Remove dispatches on the selectors given: host and key, host only or key
// only. At least one is required.
func (e *Editor) Remove(ctx context.Context, host string, publicKey string) (bool, error) {
	host = strings.TrimSpace(host)
	hasKey := NormalizeKey(publicKey) != ""
	switch {
	case host == "" && !hasKey:
		return false, breverrors.WrapAndTrace(breverrors.NewValidationError("a host or a public key is required to remove entries"))
	case host == "":
		return e.RemoveByPublicKey(publicKey)
	case !hasKey:
		return e.RemoveByHost(ctx, host)
	default:
		return e.RemoveByHostAndPublicKey(ctx, host, publicKey)
	}
}

// RemoveByHost removes every entry of host, hashed or not, with ssh-keygen -R.
// It reports a removal when the file got smaller.
func (e *Editor) RemoveByHost(ctx context.Context, host string) (bool, error) {
	if strings.TrimSpace(host) == "" {
		return false, breverrors.WrapAndTrace(breverrors.NewValidationError("a host is required"))
	}
	before, exists, err := e.size()
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	if !exists {
		return false, nil
	}

	if err := e.keygen.Remove(ctx, host, e.path); err != nil {
		return false, breverrors.WrapAndTrace(err)
	}

	after, _, err := e.size()
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	removed := after < before
	e.log.Debug("removed host", zap.String("host", host), zap.Bool("removed", removed))
	return removed, nil
}

// RemoveByPublicKey removes every entry, for any host, ending in publicKey.
func (e *Editor) RemoveByPublicKey(publicKey string) (bool, error) {
	key := NormalizeKey(publicKey)
	if key == "" {
		return false, breverrors.WrapAndTrace(breverrors.NewValidationError("a public key is required"))
	}
	exists, err := e.exists()
	if err != nil || !exists {
		return false, err
	}

	n, err := rewrite(e.fs, e.path, func(line string) bool {
		return endsWithKey(line, key)
	})
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	e.log.Debug("removed public key", zap.String("fingerprint", Fingerprint(key)), zap.Int("lines", n))
	return n > 0, nil
}

// RemoveByHostAndPublicKey removes the entries of host that carry publicKey
// and keeps the host's other keys.
func (e *Editor) RemoveByHostAndPublicKey(ctx context.Context, host string, publicKey string) (bool, error) {
	key := NormalizeKey(publicKey)
	if strings.TrimSpace(host) == "" || key == "" {
		return false, breverrors.WrapAndTrace(breverrors.NewValidationError("a host and a public key are required"))
	}
	exists, err := e.exists()
	if err != nil || !exists {
		return false, err
	}

	lines, err := e.keygen.Search(ctx, host, e.path)
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	matching := lo.Filter(lines, func(line string, _ int) bool {
		return strings.Contains(line, key)
	})
	if len(matching) == 0 {
		return false, nil
	}
	targets := make(map[string]struct{}, len(matching))
	for _, line := range matching {
		targets[strings.TrimSpace(line)] = struct{}{}
	}

	n, err := rewrite(e.fs, e.path, func(line string) bool {
		_, ok := targets[strings.TrimSpace(line)]
		return ok
	})
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	e.log.Debug("removed host key",
		zap.String("host", host),
		zap.String("fingerprint", Fingerprint(key)),
		zap.Int("lines", n))
	return n > 0, nil
}

// Find returns the entry lines matching host, nil when the file is missing.
func (e *Editor) Find(ctx context.Context, host string) ([]string, error) {
	exists, err := e.exists()
	if err != nil || !exists {
		return nil, err
	}
	lines, err := e.keygen.Search(ctx, host, e.path)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return lines, nil
}

// hostKeys returns the normalized keys recorded for host. ssh-keygen -F fails
// on a missing file, so it is not asked in that case.
func (e *Editor) hostKeys(ctx context.Context, host string) ([]string, error) {
	exists, err := e.exists()
	if err != nil || !exists {
		return nil, err
	}
	keys, err := e.keygen.SearchKeys(ctx, host, e.path)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return keys, nil
}

func (e *Editor) appendLine(line string) (err error) {
	if err := files.EnsureParentDir(e.fs, e.path); err != nil {
		return breverrors.WrapAndTrace(err)
	}
	f, err := e.fs.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return breverrors.WrapAndTrace(&breverrors.NoKnownHostsFileError{Path: e.path, Err: err})
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("close", e.path, closeErr))
		}
	}()

	prefix, err := missingNewline(f)
	if err != nil {
		return breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("read", e.path, err))
	}
	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		return breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("write", e.path, err))
	}
	return nil
}

// missingNewline returns "\n" when f is non-empty and its last byte is not a
// newline, so that an append starts on a fresh line.
func missingNewline(f afero.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", err //nolint:wrapcheck // wrapped by caller
	}
	if info.Size() == 0 {
		return "", nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return "", err //nolint:wrapcheck // wrapped by caller
	}
	if last[0] == '\n' {
		return "", nil
	}
	return "\n", nil
}

func (e *Editor) exists() (bool, error) {
	ok, err := files.Exists(e.fs, e.path, false)
	if err != nil {
		return false, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("stat", e.path, err))
	}
	return ok, nil
}

func (e *Editor) size() (int64, bool, error) {
	info, err := e.fs.Stat(e.path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("stat", e.path, err))
	}
	if info.IsDir() {
		return 0, false, nil
	}
	return info.Size(), true, nil
}
