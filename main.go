package main

import "github.com/frahmantamala/funcionarios/cmd"

func main() {
	cmd.Execute()
}
