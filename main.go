package main

import (
	"fmt"
	"os"

	"finlog/cmd/breakdown"
	"finlog/cmd/logentry"
	"finlog/cmd/root"
	"finlog/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(logentry.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(breakdown.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
