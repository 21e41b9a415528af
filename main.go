package main

import "github.com/harness-community/fme-report/cmd"

func main() {
	cmd.Execute()
}
