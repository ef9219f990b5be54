package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vxhub/vxhub-cli/internal/api"
	"github.com/vxhub/vxhub-cli/internal/config"
	"github.com/vxhub/vxhub-cli/internal/outfmt"
)

// errAlreadyHandled marks errors whose message was already printed by RunE,
// so Execute doesn't print them a second time.
var errAlreadyHandled = errors.New("error already handled")

// handledError wraps an error after it has been printed, carrying the exit
// code for main.
type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string { return e.err.Error() }

func (e *handledError) Unwrap() error { return e.err }

func (e *handledError) Is(target error) bool { return target == errAlreadyHandled }

// RunE wraps a command's run function with shared error handling: errors are
// printed once (as JSON in JSON mode), and mapped to an exit code.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if outfmt.IsJSON(cmd.Context()) {
			_ = outfmt.WriteJSON(cmd.ErrOrStderr(), errorPayload(err))
		} else {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error: "+describeError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

func errorPayload(err error) map[string]any {
	payload := map[string]any{"error": err.Error()}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		payload["status_code"] = apiErr.StatusCode
		payload["reason"] = apiErr.Reason.String()
		if apiErr.RequestID != "" {
			payload["request_id"] = apiErr.RequestID
		}
	}
	return payload
}

// describeError adds a recovery hint for the error classes users actually
// hit: missing credentials, connectivity, and forced upgrade.
func describeError(err error) string {
	msg := err.Error()
	if errors.Is(err, config.ErrNotConfigured) {
		return msg
	}

	var connErr *api.ConnectivityError
	if errors.As(err, &connErr) {
		return msg + "\nCheck your network connection and the hub URL (vx auth status)."
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Reason {
		case api.StatusAuthError:
			return msg + "\nRe-register the device with 'vx device register' or check credentials with 'vx auth status'."
		case api.StatusOutdated:
			return msg + "\nThe hub requires a newer client. Run 'vx version' to check for updates."
		}
	}
	return msg
}

// requireText validates a positional free-text argument joined from args.
func requireText(args []string, what string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return text, nil
}
