// Package cmd is the entrypoint to cli
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/brevdev/known-hosts-edit/pkg/cmd/add"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/find"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/remove"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/util"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/version"
	"github.com/brevdev/known-hosts-edit/pkg/config"
	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/featureflag"
	"github.com/brevdev/known-hosts-edit/pkg/store"
	"github.com/brevdev/known-hosts-edit/pkg/terminal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewDefaultKnownHostsEditCommand() *cobra.Command {
	fsStore := store.
		NewBasicStore(config.GlobalConfig).
		WithFileSystem(afero.NewOsFs())

	var in io.Reader
	if util.IsStdinPiped() {
		in = os.Stdin
	}
	cmd := NewKnownHostsEditCommand(terminal.New(), fsStore, &util.GlobalOptions{}, in)
	return cmd
}

func NewKnownHostsEditCommand(t *terminal.Terminal, editorStore util.EditorStore, opts *util.GlobalOptions, in io.Reader) *cobra.Command {
	cmds := &cobra.Command{
		Use:   "known-hosts-edit",
		Short: "add and remove entries of an OpenSSH known_hosts file",
		Long: `
      add and remove entries of an OpenSSH known_hosts file

      Hashed files stay hashed. Lookups and hashing are done by ssh-keygen,
      which has to be installed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, editorStore, opts)
		},
		Run: runHelp,
	}

	cmds.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "known_hosts file to edit (default $KNOWN_HOSTS_EDIT_FILE or ~/.ssh/known_hosts)")
	cmds.PersistentFlags().BoolVar(&opts.UseSSHConfig, "ssh-config", false, "use the UserKnownHostsFile that ~/.ssh/config sets for the host")
	cmds.PersistentFlags().StringVar(&opts.User, "user", "", "edit the files of another user, by name or uid")
	cmds.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "print debug logs")

	cmds.AddCommand(add.NewCmdAdd(t, editorStore, opts, in))
	cmds.AddCommand(remove.NewCmdRemove(t, editorStore, opts))
	cmds.AddCommand(find.NewCmdFind(t, editorStore, opts))
	cmds.AddCommand(version.NewCmdVersion(t))

	return cmds
}

func setup(cmd *cobra.Command, editorStore util.EditorStore, opts *util.GlobalOptions) error {
	if err := setUser(editorStore, opts.User); err != nil {
		return breverrors.WrapAndTrace(err)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		_ = featureflag.LoadFeatureFlags(filepath.Join(home, ".known-hosts-edit"))
	}
	if cmd.Flags().Changed("debug") {
		featureflag.SetDebug(opts.Debug)
	}

	if !featureflag.Debug() {
		logrus.SetLevel(logrus.WarnLevel)
		return nil
	}
	logrus.SetLevel(logrus.DebugLevel)
	if opts.Log == nil {
		log, err := zap.NewDevelopment()
		if err != nil {
			return breverrors.WrapAndTrace(err)
		}
		opts.Log = log
	}
	logrus.WithField("command", cmd.CommandPath()).Debug("debug logging enabled")
	return nil
}

// setUser points the default paths at userID's home directory.
func setUser(editorStore util.EditorStore, userID string) error {
	if userID == "" {
		return nil
	}
	fsStore, ok := editorStore.(*store.FileStore)
	if !ok {
		return breverrors.NewValidationError("--user is not supported here")
	}
	if fsStore.WithUserID(userID).User == nil {
		return breverrors.NewValidationError(fmt.Sprintf("unknown user %q", userID))
	}
	return nil
}

func runHelp(cmd *cobra.Command, _ []string) {
	_ = cmd.Help()
}
