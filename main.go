// Commitlens annotates GitHub commit messages and analyzes their language.
package main

import (
	"github.com/Andyyyy64/el331-commit-analysis/cmd"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/iocache"
)

func main() {
	err := cmd.Execute()

	iocache.CloseCaching()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		contract.LogFatal("commitlens", err)
	}
}
