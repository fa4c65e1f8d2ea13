/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/RiyazHeadsup/general-service/cmd"

func main() {
	cmd.Execute()
}
