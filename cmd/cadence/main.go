package main

import "github.com/sandeepkv93/cadence/cmd/cadence/root"

func main() {
	root.Execute()
}
