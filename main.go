package main

import (
	"github.com/netdevops/routerscout/cmd"
)

func main() {
	cmd.Execute()
}
