package main

import "oap-netconfig/cmd"

func main() {
	cmd.Execute()
}
