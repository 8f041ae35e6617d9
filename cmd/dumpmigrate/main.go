package main

import "github.com/dbsmedya/dumpmigrate/cmd/dumpmigrate/cmd"

func main() {
	cmd.Execute()
}
