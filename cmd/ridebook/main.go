package main

import "ride-booking/internal/cli"

func main() {
	cli.Execute()
}
