package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/brevdev/known-hosts-edit/pkg/cmd/version"
	"github.com/brevdev/known-hosts-edit/pkg/config"
	"github.com/brevdev/known-hosts-edit/pkg/featureflag"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

type KnownHostsError interface {
	// Error returns a user-facing string explaining the error
	Error() string

	// Directive returns a user-facing string explaining how to overcome the error
	Directive() string
}

type ErrorReporter interface {
	Setup() func()
	Flush()
	ReportMessage(string) string
	ReportError(error) string
	AddTag(key string, value string)
}

func GetDefaultErrorReporter() ErrorReporter {
	return SentryErrorReporter{}
}

type SentryErrorReporter struct{}

var _ ErrorReporter = SentryErrorReporter{}

// Setup is a no-op when no DSN is configured; sentry drops every event.
func (s SentryErrorReporter) Setup() func() {
	if !featureflag.IsDev() {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     config.GlobalConfig.GetSentryDSN(),
			Release: version.Version,
		})
		if err != nil {
			fmt.Println(err)
		}
	}
	return func() {
		err := recover()
		if err != nil {
			sentry.CurrentHub().Recover(err)
			sentry.Flush(time.Second * 5)
			panic(err)
		}
		sentry.Flush(2 * time.Second)
	}
}

func (s SentryErrorReporter) Flush() {
	sentry.Flush(time.Second * 2)
}

func (s SentryErrorReporter) ReportMessage(msg string) string {
	event := sentry.CaptureMessage(msg)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) ReportError(e error) string {
	event := sentry.CaptureException(e)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) AddTag(key string, value string) {
	scope := sentry.CurrentHub().Scope()
	scope.SetTag(key, value)
}

// ValidationError is returned when the caller supplied unusable arguments,
// e.g. a removal with neither host nor key.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Message: message}
}

var _ error = ValidationError{}

func (v ValidationError) Error() string {
	return v.Message
}

// ErrKnownHostsEdit is the base kind of every failure to read, write or
// search the known_hosts file. Match it with Is.
var ErrKnownHostsEdit = stderrors.New("known_hosts edit failed")

// KnownHostsEditError wraps an OS level failure on a path.
type KnownHostsEditError struct {
	Op   string
	Path string
	Err  error
}

func NewKnownHostsEditError(op, path string, err error) *KnownHostsEditError {
	return &KnownHostsEditError{Op: op, Path: path, Err: err}
}

func (e *KnownHostsEditError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *KnownHostsEditError) Unwrap() error { return e.Err }
func (e *KnownHostsEditError) Is(target error) bool { return target == ErrKnownHostsEdit }

// NoKnownHostsFileError means the known_hosts file or its parent directory
// could not be created or opened.
type NoKnownHostsFileError struct {
	Path string
	Err  error
}

func (e *NoKnownHostsFileError) Error() string {
	return fmt.Sprintf("known_hosts file %s is not available: %v", e.Path, e.Err)
}

func (e *NoKnownHostsFileError) Directive() string {
	return "check that the directory containing the known_hosts file exists and is writable, or pass --file"
}

func (e *NoKnownHostsFileError) Unwrap() error { return e.Err }
func (e *NoKnownHostsFileError) Is(target error) bool { return target == ErrKnownHostsEdit }

// NoSSHKeygenError means no usable ssh-keygen executable was found.
type NoSSHKeygenError struct {
	SearchPath []string
}

func (e *NoSSHKeygenError) Error() string {
	return fmt.Sprintf("ssh-keygen not found in %s", strings.Join(e.SearchPath, ":"))
}

func (e *NoSSHKeygenError) Directive() string {
	return "install OpenSSH or add the directory containing ssh-keygen to your PATH"
}

func (e *NoSSHKeygenError) Is(target error) bool { return target == ErrKnownHostsEdit }

// SSHKeygenExecError means ssh-keygen could not be started, exited non-zero
// or ran past its timeout.
type SSHKeygenExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *SSHKeygenExecError) Error() string {
	msg := fmt.Sprintf("ssh-keygen %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *SSHKeygenExecError) Directive() string {
	return "run the ssh-keygen command above by hand to see what went wrong"
}

func (e *SSHKeygenExecError) Unwrap() error { return e.Err }
func (e *SSHKeygenExecError) Is(target error) bool { return target == ErrKnownHostsEdit }

func WrapAndTrace(err error, messages ...string) error {
	message := ""
	for _, m := range messages {
		message += fmt.Sprintf(" %s", m)
	}
	return errors.Wrap(err, MakeErrorMessage(message))
}

func MakeErrorMessage(message string) string {
	_, fn, line, _ := runtime.Caller(2)
	return fmt.Sprintf("[error] %s:%d %s\n\t", fn, line, message)
}

func New(message string) error {
	return stderrors.New(message)
}

func Errorf(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...) //nolint:goerr113 // wrapper
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

func Cause(err error) error {
	return errors.Cause(err)
}
