package cmderrors

import (
	"bytes"
	"testing"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
	"github.com/brevdev/known-hosts-edit/pkg/terminal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal() (*terminal.Terminal, *bytes.Buffer) {
	color.NoColor = true
	errOut := &bytes.Buffer{}
	return terminal.NewWithWriters(&bytes.Buffer{}, errOut), errOut
}

func TestDisplayAndHandleErrorValidation(t *testing.T) {
	term, errOut := newTestTerminal()

	DisplayAndHandleError(term, breverrors.WrapAndTrace(breverrors.NewValidationError("--host or --key is required")))
	assert.Equal(t, "--host or --key is required\n", errOut.String())
}

func TestDisplayAndHandleErrorDirective(t *testing.T) {
	term, errOut := newTestTerminal()

	DisplayAndHandleError(term, breverrors.WrapAndTrace(&breverrors.NoSSHKeygenError{SearchPath: []string{"/usr/bin"}}))
	assert.Contains(t, errOut.String(), "Error: ssh-keygen not found in /usr/bin\n")
	assert.Contains(t, errOut.String(), "install OpenSSH")
}

func TestDisplayAndHandleErrorNil(t *testing.T) {
	term, errOut := newTestTerminal()

	DisplayAndHandleError(term, nil)
	assert.Empty(t, errOut.String())
}

func TestDisplayAndHandleCmdErrorReturnsCause(t *testing.T) {
	cause := &breverrors.SSHKeygenExecError{Args: []string{"-F", "github.com"}, ExitCode: 255, Err: breverrors.New("exit status 255")}

	err := DisplayAndHandleCmdError("find", func() error {
		return breverrors.WrapAndTrace(cause)
	})
	require.Error(t, err)
	assert.Same(t, cause, err)

	assert.NoError(t, DisplayAndHandleCmdError("find", func() error { return nil }))
}

func TestTransformToValidationError(t *testing.T) {
	args := TransformToValidationError(cobra.ExactArgs(1))

	assert.NoError(t, args(&cobra.Command{}, []string{"github.com"}))
	err := args(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(breverrors.New("other")))
}
