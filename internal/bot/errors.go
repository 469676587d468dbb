package bot

import "fmt"

const (
	readFailureText  = "Unknown error while trying to read from Spark."
	writeFailureText = "Error while trying to write to Spark."
	tokenSetupText   = "Please change the content of the config file with your Spark token. Visit https://developer.ciscospark.com/getting-started.html for a tutorial."
)

// ReadError wraps a failure while fetching the triggering message. Msg is
// what the webhook caller sees; the cause stays in the logs.
type ReadError struct {
	Msg   string
	Cause error
}

func (e *ReadError) Error() string { return e.Msg }
func (e *ReadError) Unwrap() error { return e.Cause }

// WriteError wraps a failure while posting the reply.
type WriteError struct {
	Cause error
}

func (e *WriteError) Error() string { return writeFailureText }
func (e *WriteError) Unwrap() error { return e.Cause }

// UnsupportedMethodError marks inbound calls that are neither GET nor POST.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("cannot parse user input on %s method", e.Method)
}
