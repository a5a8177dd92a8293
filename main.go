/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sempr/judge-core-go/cmd"

func main() {
	cmd.Execute()
}
