package main

import (
	"log"
	"os"

	// Blank imports to register the functions
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	_ "github.com/stridecoach/server/functions/activity-webhook"
	_ "github.com/stridecoach/server/functions/oauth-callback"
)

func main() {
	port := "8080"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v\n", err)
	}
}
