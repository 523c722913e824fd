package main

import (
	"github.com/zachgliebs/VinylRecorder/cmd"
)

func main() {
	cmd.Execute()
}
