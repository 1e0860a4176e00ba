package gcppubsub

import (
	"errors"
	"log"
	"os"
)

var errNoProject = errors.New("GCP_PROJECT_ID environment variable must be set")

// GetGCPProjectID reads GCP_PROJECT_ID. With PUBSUB_EMULATOR_HOST set the
// client talks to the emulator instead of Google Cloud.
func GetGCPProjectID() (string, error) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		return "", errNoProject
	}
	if host := os.Getenv("PUBSUB_EMULATOR_HOST"); host != "" {
		log.Printf("Using pubsub emulator at %s", host)
	}
	return projectID, nil
}
