// Main entry point for the application
package main

import (
	"fygallery/internal/ui"
	"log"
)

func main() {
	// Set the logger prefix
	log.SetPrefix("FyGallery ")

	ui.CreateApplication()
}
