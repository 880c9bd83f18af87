package knownhosts

import (
	"bufio"
	"io"
	"strings"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/files"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

// hashedMarker starts every hashed hostname, see sshd(8) SSH_KNOWN_HOSTS FILE FORMAT.
const hashedMarker = "|"

// IsHashed reports whether the known_hosts file at path holds at least one
// hashed hostname. A missing file is reported as not hashed.
func IsHashed(fs afero.Fs, path string) (bool, error) {
	ok, err := files.Exists(fs, path, false)
	if err != nil {
		return false, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("stat", path, err))
	}
	if !ok {
		return false, nil
	}

	f, err := fs.Open(path)
	if err != nil {
		return false, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("open", path, err))
	}
	defer f.Close() //nolint:errcheck // read only

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		// one hashed line is enough, files may mix both forms
		if strings.HasPrefix(line, hashedMarker) {
			return true, nil
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, breverrors.WrapAndTrace(breverrors.NewKnownHostsEditError("read", path, err))
		}
	}
}

// NormalizeKey keeps the key type and key material of an OpenSSH public key,
// dropping any comment.
func NormalizeKey(publicKey string) string {
	fields := strings.Fields(publicKey)
	return strings.Join(fields[:min(len(fields), 2)], " ")
}

// endsWithKey reports whether the trailing fields of an entry line are the
// fields of key. At least a host field has to precede them.
func endsWithKey(line string, key string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	fields := strings.Fields(trimmed)
	keyFields := strings.Fields(key)
	if len(keyFields) == 0 || len(fields) <= len(keyFields) {
		return false
	}
	return strings.Join(fields[len(fields)-len(keyFields):], " ") == strings.Join(keyFields, " ")
}

// Fingerprint returns the SHA256 fingerprint of a normalized public key, or
// "" when the key material does not parse.
func Fingerprint(publicKey string) string {
	pk, _, _, _, err := ssh.ParseAuthorizedKey([]byte(publicKey))
	if err != nil {
		return ""
	}
	return ssh.FingerprintSHA256(pk)
}
