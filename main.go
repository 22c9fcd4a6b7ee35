package main

import (
	"log"

	"pvsizer/server"
)

func main() {

	system, err := server.NewSystem()
	if err != nil {
		log.Println("system initialization failed", err)
		return
	}
	system.Start()

}
