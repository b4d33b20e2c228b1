/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/tgfetch/TGFetch/cmd"
)

func main() {
	cmd.Execute()
}
