package main

import "github.com/oshokin/alarm-reminder/cmd/alarm-reset/cmd"

func main() {
	cmd.Execute()
}
