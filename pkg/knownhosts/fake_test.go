package knownhosts

import (
	"context"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // known_hosts hashing is HMAC-SHA1
	"encoding/base64"
	"strings"

	"github.com/brevdev/known-hosts-edit/pkg/sshkeygen"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh/knownhosts"
)

// fakeKeygen behaves like ssh-keygen -F/-H/-R on an afero filesystem.
type fakeKeygen struct {
	fs       afero.Fs
	searches int
	hashes   int
	removes  int
	err      error
}

var _ KeygenRunner = &fakeKeygen{}

func (f *fakeKeygen) Search(_ context.Context, host string, knownHostsPath string) ([]string, error) {
	f.searches++
	if f.err != nil {
		return nil, f.err
	}
	data, err := afero.ReadFile(f.fs, knownHostsPath)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if hostField(line) != "" && matchesHost(hostField(line), host) {
			out = append(out, strings.TrimRight(line, "\r\n"))
		}
	}
	return out, nil
}

func (f *fakeKeygen) SearchKeys(ctx context.Context, host string, knownHostsPath string) ([]string, error) {
	lines, err := f.Search(ctx, host, knownHostsPath)
	if err != nil {
		return nil, err
	}
	return keysOf(lines), nil
}

func (f *fakeKeygen) HashLine(_ context.Context, host string, publicKey string) (string, error) {
	f.hashes++
	if f.err != nil {
		return "", f.err
	}
	// patterns stay readable, like ssh-keygen -H does
	if strings.ContainsAny(host, "*?") {
		return host + " " + publicKey, nil
	}
	return knownhosts.HashHostname(host) + " " + publicKey, nil
}

func (f *fakeKeygen) Remove(_ context.Context, host string, knownHostsPath string) error {
	f.removes++
	if f.err != nil {
		return f.err
	}
	data, err := afero.ReadFile(f.fs, knownHostsPath)
	if err != nil {
		return err
	}
	var kept strings.Builder
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if hostField(line) != "" && matchesHost(hostField(line), host) {
			continue
		}
		kept.WriteString(line)
	}
	return afero.WriteFile(f.fs, knownHostsPath, []byte(kept.String()), 0o644)
}

func hostField(line string) string {
	fields := strings.Fields(line)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "@") {
		fields = fields[1:]
	}
	if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
		return ""
	}
	return fields[0]
}

func matchesHost(field string, host string) bool {
	if strings.HasPrefix(field, "|1|") {
		parts := strings.Split(field, "|")
		if len(parts) != 4 {
			return false
		}
		salt, err := base64.StdEncoding.DecodeString(parts[2])
		if err != nil {
			return false
		}
		mac := hmac.New(sha1.New, salt)
		mac.Write([]byte(host))
		return base64.StdEncoding.EncodeToString(mac.Sum(nil)) == parts[3]
	}
	for _, h := range strings.Split(field, ",") {
		if h == host {
			return true
		}
	}
	return false
}

// keysOf mirrors what sshkeygen.Keygen.SearchKeys derives from Search.
func keysOf(lines []string) []string {
	keys := make([]string, 0, len(lines))
	for _, l := range lines {
		keys = append(keys, sshkeygen.KeyFromLine(l))
	}
	return keys
}
