// Copyright © 2018 The ELPS authors

package main

import "github.com/luthersystems/cljs2js/cmd"

func main() {
	cmd.Execute()
}
