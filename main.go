package main

import "github.com/frahmantamala/checkout-service/cmd"

func main() {
	cmd.Execute()
}
