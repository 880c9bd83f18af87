package find

import (
	"context"

	"github.com/brevdev/known-hosts-edit/pkg/cmd/cmderrors"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/util"
	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/knownhosts"
	"github.com/brevdev/known-hosts-edit/pkg/sshkeygen"
	"github.com/brevdev/known-hosts-edit/pkg/terminal"
	"github.com/spf13/cobra"
)

func NewCmdFind(t *terminal.Terminal, findStore util.EditorStore, opts *util.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "find <host>",
		DisableFlagsInUseLine: true,
		Short:                 "Show the entries of a host",
		Long:                  "Show the known_hosts entries matching a host, hashed or not, with the SHA256 fingerprint of each key",
		Example: `  known-hosts-edit find github.com
  known-hosts-edit find "[git.example.com]:2222"`,
		Args: cmderrors.TransformToValidationError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmderrors.DisplayAndHandleCmdError(cmd.Name(), func() error {
				return runFind(cmd.Context(), t, findStore, opts, args[0])
			})
		},
	}
	return cmd
}

func runFind(ctx context.Context, t *terminal.Terminal, findStore util.EditorStore, opts *util.GlobalOptions, host string) error {
	editor, err := util.OpenEditor(findStore, opts, host)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	lines, err := editor.Find(ctx, host)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	if len(lines) == 0 {
		t.Eprint(t.Yellow("%s not found in %s", host, editor.Path()))
		return nil
	}

	for _, line := range lines {
		t.Vprint(line)
		if fp := knownhosts.Fingerprint(sshkeygen.KeyFromLine(line)); fp != "" {
			t.Vprint(t.Blue("  %s", fp))
		}
	}
	return nil
}
