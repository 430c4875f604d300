package main

import "github.com/nikogura/tex-tailor/cmd"

func main() {
	cmd.Execute()
}
