// Package sshkeygen runs OpenSSH's ssh-keygen against known_hosts files.
//
// Hostname hashing and hashed-aware lookups are left to ssh-keygen itself:
//
//	ssh-keygen -F host -f file   search, matching hashed entries too
//	ssh-keygen -H -f file        hash every plaintext hostname in place
//	ssh-keygen -R host -f file   remove all keys of host in place
package sshkeygen

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	// ssh-keygen -F exits 1 when the host is not in the file
	exitNotFound = 1
	scratchName  = "known_hosts_line"
)

type Keygen struct {
	Path    string
	Timeout time.Duration
	// FS must be backed by the OS filesystem, ssh-keygen reads the scratch
	// files it creates.
	FS afero.Fs
	// ScratchDir is where HashLine creates its temporary directory, the
	// system temp dir when empty.
	ScratchDir string
	Log        *zap.Logger
}

func New(path string, timeout time.Duration, log *zap.Logger) *Keygen {
	return &Keygen{
		Path:    path,
		Timeout: timeout,
		FS:      afero.NewOsFs(),
		Log:     log,
	}
}

// Search returns the known_hosts lines matching host, in file order, without
// the "# Host ... found" headers ssh-keygen prints.
func (k *Keygen) Search(ctx context.Context, host string, knownHostsPath string) ([]string, error) {
	out, err := k.run(ctx, "-F", host, "-f", knownHostsPath)
	if err != nil {
		var execErr *breverrors.SSHKeygenExecError
		if errors.As(err, &execErr) && execErr.ExitCode == exitNotFound && len(parseSearchOutput(out)) == 0 {
			return nil, nil
		}
		return nil, breverrors.WrapAndTrace(err)
	}
	return parseSearchOutput(out), nil
}

// SearchKeys is Search reduced to the "keytype key-material" part of each line.
func (k *Keygen) SearchKeys(ctx context.Context, host string, knownHostsPath string) ([]string, error) {
	lines, err := k.Search(ctx, host, knownHostsPath)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		key := KeyFromLine(line)
		return key, key != ""
	}), nil
}

// HashLine returns the known_hosts line ssh-keygen -H produces for
// "host publicKey". ssh-keygen leaves wildcard patterns unhashed, that line is
// returned as is. The scratch directory is removed before returning.
func (k *Keygen) HashLine(ctx context.Context, host string, publicKey string) (hashed string, err error) {
	fs := k.fs()
	dir, err := afero.TempDir(fs, k.ScratchDir, "known-hosts-edit")
	if err != nil {
		return "", breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("create scratch dir", k.ScratchDir, err))
	}
	defer func() {
		if rmErr := fs.RemoveAll(dir); rmErr != nil {
			k.log().Warn("could not remove scratch dir", zap.String("dir", dir), zap.Error(rmErr))
		}
	}()

	file := filepath.Join(dir, scratchName)
	if err := afero.WriteFile(fs, file, []byte(host+" "+publicKey+"\n"), 0o600); err != nil {
		return "", breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("write", file, err))
	}
	if _, err := k.run(ctx, "-H", "-f", file); err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return "", breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("read", file, err))
	}
	hashed = strings.TrimSpace(string(data))
	if !strings.HasPrefix(hashed, "|") {
		k.log().Warn("ssh-keygen left host unhashed", zap.String("host", host))
	}
	return hashed, nil
}

// Remove deletes every entry of host from knownHostsPath in place.
// ssh-keygen keeps the previous content in knownHostsPath + ".old".
func (k *Keygen) Remove(ctx context.Context, host string, knownHostsPath string) error {
	_, err := k.run(ctx, "-R", host, "-f", knownHostsPath)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	return nil
}

// KeyFromLine returns "keytype key-material" of a known_hosts line, skipping
// an @cert-authority/@revoked marker and the host field. Comments are dropped.
func KeyFromLine(line string) string {
	fields := strings.Fields(line)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "@") {
		fields = fields[1:]
	}
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:min(len(fields), 3)], " ")
}

func parseSearchOutput(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (k *Keygen) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, k.timeout())
	defer cancel()

	k.log().Debug("running ssh-keygen", zap.String("path", k.Path), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, k.Path, args...) // #nosec G204
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	execErr := &breverrors.SSHKeygenExecError{
		Args:     args,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		execErr.Err = ctxErr
		return stdout.String(), execErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitCode = exitErr.ExitCode()
	}
	return stdout.String(), execErr
}

func (k *Keygen) timeout() time.Duration {
	if k.Timeout <= 0 {
		return DefaultTimeout
	}
	return k.Timeout
}

func (k *Keygen) fs() afero.Fs {
	if k.FS == nil {
		return afero.NewOsFs()
	}
	return k.FS
}

func (k *Keygen) log() *zap.Logger {
	if k.Log == nil {
		return zap.NewNop()
	}
	return k.Log
}
