package main

import (
	"github.com/hive-sim/hive-sim/cmd"
)

func main() {
	cmd.Execute()
}
