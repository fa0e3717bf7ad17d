// File path: cmd/cobolscan/main.go
package main

import "github.com/ykosuru/cobolscan/internal/cli"

func main() {
	cli.Execute()
}
