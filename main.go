package main

import (
	"kgchat-launcher/internal/cli"
)

func main() {
	exiter, code := cli.Run()
	exiter(code)
}
