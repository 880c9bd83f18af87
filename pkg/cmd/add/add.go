package add

import (
	"context"
	"io"
	"strings"

	"github.com/brevdev/known-hosts-edit/pkg/cmd/cmderrors"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/util"
	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/knownhosts"
	"github.com/brevdev/known-hosts-edit/pkg/terminal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	addLong = `Add a host key to the known_hosts file unless the host already has that key.
If the file already holds hashed hostnames the new entry is hashed too.
The key may also be piped in, one key per line.`
	addExample = `  known-hosts-edit add github.com ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl
  known-hosts-edit -f ./known_hosts add "[git.example.com]:2222" "$(cat host_key.pub)"
  ssh-keyscan -t ed25519 github.com 2>/dev/null | cut -d' ' -f2- | known-hosts-edit add github.com`
)

func NewCmdAdd(t *terminal.Terminal, addStore util.EditorStore, opts *util.GlobalOptions, in io.Reader) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "add <host> [public-key...]",
		DisableFlagsInUseLine: true,
		Short:                 "Add a host key",
		Long:                  addLong,
		Example:               addExample,
		Args:                  cmderrors.TransformToValidationError(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmderrors.DisplayAndHandleCmdError(cmd.Name(), func() error {
				keys, err := publicKeys(args[1:], in)
				if err != nil {
					return breverrors.WrapAndTrace(err)
				}
				return runAdd(cmd.Context(), t, addStore, opts, args[0], keys)
			})
		},
	}

	return cmd
}

// publicKeys joins the key arguments into one key, or reads keys from in
// when none were given.
func publicKeys(args []string, in io.Reader) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}
	if in == nil {
		return nil, breverrors.NewValidationError("public key required: provide as argument or pipe it in")
	}
	keys, err := util.ReadLines(in)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	if len(keys) == 0 {
		return nil, breverrors.NewValidationError("public key required: provide as argument or pipe it in")
	}
	return keys, nil
}

func runAdd(ctx context.Context, t *terminal.Terminal, addStore util.EditorStore, opts *util.GlobalOptions, host string, keys []string) error {
	editor, err := util.OpenEditor(addStore, opts, host)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}

	for _, key := range keys {
		added, err := editor.Add(ctx, host, key)
		if err != nil {
			return breverrors.WrapAndTrace(err)
		}
		label := keyLabel(key)
		logrus.WithFields(logrus.Fields{"host": host, "key": label, "added": added}).Debug("add")
		if added {
			t.Vprintf("%s\n", t.Green("Added %s %s to %s", host, label, editor.Path()))
		} else {
			t.Vprintf("%s\n", t.Yellow("%s already known for %s", label, host))
		}
	}
	return nil
}

// keyLabel prefers the SHA256 fingerprint and falls back to the key itself.
func keyLabel(key string) string {
	normalized := knownhosts.NormalizeKey(key)
	if fp := knownhosts.Fingerprint(normalized); fp != "" {
		return fp
	}
	return normalized
}
