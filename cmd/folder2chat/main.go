package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/tyemirov/folder2chat/internal/cli"
	"github.com/tyemirov/folder2chat/internal/utils"
)

// main is the entry point for the folder2chat command.
func main() {
	verbose, _ := strconv.ParseBool(os.Getenv(utils.VerboseEnvironmentVariable))
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(verbose)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() {
		_ = loggerInstance.Sync()
	}()
	if applicationExecutionError := cli.Execute(context.Background(), loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
