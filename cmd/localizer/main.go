// Command localizer is the entry point for the game-localization CLI.
package main

import "game-localizer/internal/cli"

func main() {
	cli.Execute()
}
