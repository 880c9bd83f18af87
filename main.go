package main

import (
	"os"

	"github.com/brevdev/known-hosts-edit/pkg/cmd"
	"github.com/brevdev/known-hosts-edit/pkg/cmd/cmderrors"
	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/terminal"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	defer breverrors.GetDefaultErrorReporter().Setup()()

	command := cmd.NewDefaultKnownHostsEditCommand()
	err := command.Execute()
	if err != nil {
		cmderrors.DisplayAndHandleError(terminal.New(), err)
	}
	return err
}
