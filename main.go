package main

import "github.com/frahmantamala/ghost-payroll/cmd"

func main() {
	cmd.Execute()
}
