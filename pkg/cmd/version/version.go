package version

import (
	"fmt"
	"runtime"

	"github.com/brevdev/known-hosts-edit/pkg/terminal"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../version.Version=v1.2.3"
var Version = ""

func buildVersionString() string {
	v := Version
	if v == "" {
		v = "unknown"
	}
	return v
}

func NewCmdVersion(t *terminal.Terminal) *cobra.Command {
	cmd := &cobra.Command{
		Annotations: map[string]string{"housekeeping": ""},
		Use:         "version",
		Short:       "Print the known-hosts-edit version",
		Example:     "known-hosts-edit version",
		Args:        cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t.Vprintf("%s\n", t.Green("Current version: %s", buildVersionString()))
			t.Printf("%s\n", fmt.Sprintf("go: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH))
		},
	}
	return cmd
}
