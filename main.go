package main

import "github.com/frahmantamala/business-management/cmd"

func main() {
	cmd.Execute()
}
