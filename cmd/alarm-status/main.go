package main

import "github.com/oshokin/alarm-reminder/cmd/alarm-status/cmd"

func main() {
	cmd.Execute()
}
