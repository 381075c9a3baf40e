package main

import (
	"log"

	"fygallery/internal/ui"
)

func main() {
	log.SetPrefix("[fygallery] ")
	ui.CreateApplication()
}
