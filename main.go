package main

import "github.com/getsentry/apple-system-symbols-upload/internal/cli"

func main() {
	cli.Execute()
}
