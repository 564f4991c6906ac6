// Package picker asks the desktop for a directory through the platform's native dialog utility.
package picker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	dialogTitle = "Select a folder"

	zenityCommand     = "zenity"
	osascriptCommand  = "osascript"
	powershellCommand = "powershell"

	osascriptChooseFolder  = `POSIX path of (choose folder with prompt "` + dialogTitle + `")`
	powershellChooseFolder = `Add-Type -AssemblyName System.Windows.Forms;` +
		`$dialog = New-Object System.Windows.Forms.FolderBrowserDialog;` +
		`$dialog.Description = '` + dialogTitle + `';` +
		`if ($dialog.ShowDialog() -eq 'OK') { Write-Output $dialog.SelectedPath }`

	cancelledExitCode       = 1
	errorDialogFailedFormat = "%s dialog failed: %w"
	errorUnavailableMessage = "no folder dialog is available on this system"
)

// ErrUnavailable reports that no native folder dialog can be shown.
var ErrUnavailable = errors.New(errorUnavailableMessage)

// Picker lets a user choose a directory interactively.
type Picker interface {
	ChooseDirectory(ctx context.Context) (string, error)
}

// CommandRunner executes a dialog utility and returns its standard output.
type CommandRunner func(ctx context.Context, name string, arguments ...string) ([]byte, error)

// DialogPicker implements Picker with zenity, osascript or PowerShell.
type DialogPicker struct {
	operatingSystem string
	lookPath        func(string) (string, error)
	run             CommandRunner
}

type dialogCommand struct {
	name      string
	arguments []string
}

// NewDialogPicker returns a picker for the current platform.
func NewDialogPicker() *DialogPicker {
	return NewDialogPickerFor(runtime.GOOS, exec.LookPath, runCommand)
}

// NewDialogPickerFor returns a picker for operatingSystem that resolves and runs utilities with the provided functions.
func NewDialogPickerFor(operatingSystem string, lookPath func(string) (string, error), run CommandRunner) *DialogPicker {
	return &DialogPicker{operatingSystem: operatingSystem, lookPath: lookPath, run: run}
}

// ChooseDirectory shows the dialog and returns the chosen directory.
// A cancelled dialog yields an empty path and no error.
func (dialogPicker *DialogPicker) ChooseDirectory(ctx context.Context) (string, error) {
	command, available := dialogPicker.dialogCommand()
	if !available {
		return "", ErrUnavailable
	}
	if _, lookError := dialogPicker.lookPath(command.name); lookError != nil {
		return "", ErrUnavailable
	}

	selection, runError := dialogPicker.run(ctx, command.name, command.arguments...)
	if runError != nil {
		var exitError *exec.ExitError
		if errors.As(runError, &exitError) && exitError.ExitCode() == cancelledExitCode {
			return "", nil
		}
		return "", fmt.Errorf(errorDialogFailedFormat, command.name, runError)
	}
	chosenPath := strings.TrimSpace(string(selection))
	if chosenPath == "" {
		return "", nil
	}
	return filepath.Clean(chosenPath), nil
}

func (dialogPicker *DialogPicker) dialogCommand() (dialogCommand, bool) {
	switch dialogPicker.operatingSystem {
	case "linux", "freebsd", "openbsd", "netbsd":
		return dialogCommand{name: zenityCommand, arguments: []string{"--file-selection", "--directory", "--title=" + dialogTitle}}, true
	case "darwin":
		return dialogCommand{name: osascriptCommand, arguments: []string{"-e", osascriptChooseFolder}}, true
	case "windows":
		return dialogCommand{name: powershellCommand, arguments: []string{"-NoProfile", "-STA", "-Command", powershellChooseFolder}}, true
	default:
		return dialogCommand{}, false
	}
}

func runCommand(ctx context.Context, name string, arguments ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, arguments...).Output()
}
