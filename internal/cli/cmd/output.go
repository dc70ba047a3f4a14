package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/berrythewa/clipbridge/internal/ipc"
	"github.com/fatih/color"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

// printResponse renders a method-call reply and returns a non-nil error for
// anything but success, so the command exits non-zero.
func printResponse(w io.Writer, method string, resp *ipc.Response) error {
	switch resp.Status {
	case ipc.StatusOK:
		okColor.Fprint(w, "OK")
		if resp.Data != nil {
			data, err := json.Marshal(resp.Data)
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			fmt.Fprintf(w, " %s", data)
		}
		fmt.Fprintln(w)
		return nil

	case ipc.StatusNotImplemented:
		warningColor.Fprint(w, "Not implemented: ")
		fmt.Fprintln(w, method)
		return fmt.Errorf("%s: %w", method, ipc.ErrNotImplemented)

	default:
		errorColor.Fprint(w, "Error: ")
		fmt.Fprintf(w, "%s (%s)\n", resp.Message, resp.Code)
		return fmt.Errorf("%s: %w", method, resp.Err())
	}
}
