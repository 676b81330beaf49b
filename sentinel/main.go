package main

import (
	"log"

	"github.com/gr80mcbr/lwfm/internal/version"
)

func main() {
	log.Printf(
		"Starting lwfm Job Status Sentinel -- version %s -- commit %s",
		version.Version(),
		version.Commit(),
	)

	server, err := getServerFromEnvironment()
	if err != nil {
		log.Fatal(err)
	}

	log.Println(server.ListenAndServe())
}
