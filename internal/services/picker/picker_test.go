package picker_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/tyemirov/folder2chat/internal/services/picker"
)

func TestChooseDirectoryUnavailable(testingHandle *testing.T) {
	missingUtility := func(string) (string, error) { return "", exec.ErrNotFound }
	failingRun := func(context.Context, string, ...string) ([]byte, error) {
		testingHandle.Fatalf("dialog must not run when the utility is missing")
		return nil, nil
	}
	testCases := []struct {
		name            string
		operatingSystem string
	}{
		{name: "linux without zenity", operatingSystem: "linux"},
		{name: "unknown platform", operatingSystem: "plan9"},
	}
	for _, testCase := range testCases {
		dialogPicker := picker.NewDialogPickerFor(testCase.operatingSystem, missingUtility, failingRun)
		if _, chooseError := dialogPicker.ChooseDirectory(context.Background()); !errors.Is(chooseError, picker.ErrUnavailable) {
			testingHandle.Fatalf("%s: expected ErrUnavailable, got %v", testCase.name, chooseError)
		}
	}
}

func TestChooseDirectorySelection(testingHandle *testing.T) {
	var invokedName string
	foundUtility := func(name string) (string, error) { return "/usr/bin/" + name, nil }
	run := func(_ context.Context, name string, _ ...string) ([]byte, error) {
		invokedName = name
		return []byte("/home/user/proj/\n"), nil
	}
	dialogPicker := picker.NewDialogPickerFor("darwin", foundUtility, run)

	selection, chooseError := dialogPicker.ChooseDirectory(context.Background())
	if chooseError != nil || selection != "/home/user/proj" {
		testingHandle.Fatalf("ChooseDirectory = %q, %v", selection, chooseError)
	}
	if invokedName != "osascript" {
		testingHandle.Fatalf("unexpected utility %q", invokedName)
	}
}

func TestChooseDirectoryRunFailure(testingHandle *testing.T) {
	foundUtility := func(name string) (string, error) { return name, nil }
	launchFailure := errors.New("display not set")
	run := func(context.Context, string, ...string) ([]byte, error) { return nil, launchFailure }
	dialogPicker := picker.NewDialogPickerFor("linux", foundUtility, run)

	if _, chooseError := dialogPicker.ChooseDirectory(context.Background()); !errors.Is(chooseError, launchFailure) {
		testingHandle.Fatalf("expected wrapped failure, got %v", chooseError)
	}
}
