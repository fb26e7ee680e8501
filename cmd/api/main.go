package main

import (
	"log"
	"os"
	"screenerbacktest/cmd"
	"strconv"

	_ "github.com/lib/pq"
)

func main() {
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	port := 3009
	if p := os.Getenv("SCREENER_PORT"); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			log.Fatalf("invalid SCREENER_PORT %q: %v", p, err)
		}
	}

	err = apiHandler.StartApi(port)
	if err != nil {
		log.Fatal(err)
	}
}
