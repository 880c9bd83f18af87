package cmderrors

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/brevdev/known-hosts-edit/pkg/featureflag"
	"github.com/brevdev/known-hosts-edit/pkg/terminal"

	breverrors "github.com/brevdev/known-hosts-edit/pkg/errors"
)

// determines if should print error stack trace and/or send to crash monitor
func DisplayAndHandleCmdError(name string, cmdFunc func() error) error {
	er := breverrors.GetDefaultErrorReporter()
	er.AddTag("command", name)
	err := cmdFunc()
	if err != nil {
		if !IsValidationError(err) {
			er.ReportMessage(err.Error())
			er.ReportError(err)
		}
		if featureflag.Debug() || featureflag.IsDev() {
			return err
		} else {
			return errors.Cause(err) //nolint:wrapcheck //no check
		}
	}
	return nil
}

// DisplayAndHandleError prints err to stderr. Validation errors are the
// caller's mistake and shown in yellow, everything else in red with a hint
// when the error carries one.
func DisplayAndHandleError(t *terminal.Terminal, err error) {
	if err == nil {
		return
	}
	if featureflag.Debug() || featureflag.IsDev() {
		t.Eprintf("%+v\n", err)
		return
	}
	cause := errors.Cause(err)
	if IsValidationError(err) {
		t.Eprint(t.Yellow("%s", cause.Error()))
		return
	}
	t.Errprint(cause, "")
}

func IsValidationError(err error) bool {
	var v breverrors.ValidationError
	return breverrors.As(err, &v)
}

// TransformToValidationError turns cobra argument errors into validation
// errors so they are not reported.
func TransformToValidationError(pa cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := pa(cmd, args)
		if err != nil {
			return breverrors.NewValidationError(err.Error())
		}
		return nil
	}
}
