package main

import "github.com/rmcole/binscan/cmd"

func main() {
	cmd.Execute()
}
