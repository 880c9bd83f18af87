package remove

import (
	"context"

	"github.com/brevdev/known-hosts-edit/pkg/cmd/cmderrors"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/util"
	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/knownhosts"
	"github.com/brevdev/known-hosts-edit/pkg/terminal"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	removeLong = `Remove entries from the known_hosts file.

  --host only         removes every entry of the host, hashed or not
  --key only          removes every entry carrying the key, for any host
  --host and --key    removes that key of the host and keeps its other keys`
	removeExample = `  known-hosts-edit remove --host github.com
  known-hosts-edit remove --host github.com --host gitlab.com
  known-hosts-edit remove --key "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl"
  known-hosts-edit remove --host github.com --key "$(cat old_host_key.pub)"`
)

type removeOptions struct {
	hosts []string
	key   string
}

func NewCmdRemove(t *terminal.Terminal, removeStore util.EditorStore, opts *util.GlobalOptions) *cobra.Command {
	var ro removeOptions

	cmd := &cobra.Command{
		Use:                   "remove",
		Aliases:               []string{"rm"},
		DisableFlagsInUseLine: true,
		Short:                 "Remove host keys",
		Long:                  removeLong,
		Example:               removeExample,
		Args:                  cmderrors.TransformToValidationError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmderrors.DisplayAndHandleCmdError(cmd.Name(), func() error {
				return runRemove(cmd.Context(), t, removeStore, opts, ro)
			})
		},
	}

	cmd.Flags().StringSliceVar(&ro.hosts, "host", []string{}, "host whose entries are removed, may be repeated")
	cmd.Flags().StringVar(&ro.key, "key", "", "public key whose entries are removed")

	return cmd
}

func runRemove(ctx context.Context, t *terminal.Terminal, removeStore util.EditorStore, opts *util.GlobalOptions, ro removeOptions) error {
	hosts := lo.Uniq(lo.Compact(ro.hosts))
	if len(hosts) == 0 && knownhosts.NormalizeKey(ro.key) == "" {
		return breverrors.NewValidationError("--host or --key is required")
	}
	if len(hosts) == 0 {
		return removeOne(ctx, t, removeStore, opts, "", ro.key)
	}

	var allErr error
	for _, host := range hosts {
		if err := removeOne(ctx, t, removeStore, opts, host, ro.key); err != nil {
			allErr = multierror.Append(allErr, err)
		}
	}
	if allErr != nil {
		return breverrors.WrapAndTrace(allErr)
	}
	return nil
}

func removeOne(ctx context.Context, t *terminal.Terminal, removeStore util.EditorStore, opts *util.GlobalOptions, host string, key string) error {
	editor, err := util.OpenEditor(removeStore, opts, host)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	removed, err := editor.Remove(ctx, host, key)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	logrus.WithFields(logrus.Fields{"host": host, "removed": removed}).Debug("remove")

	target := host
	if target == "" {
		target = "key " + knownhosts.NormalizeKey(key)
	}
	if removed {
		t.Vprintf("%s\n", t.Green("Removed %s from %s", target, editor.Path()))
	} else {
		t.Vprintf("%s\n", t.Yellow("No entries for %s in %s", target, editor.Path()))
	}
	return nil
}
