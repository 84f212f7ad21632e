// Test classifier server that mimics the deepfake inference API.
// It accepts multipart audio uploads on /inference and returns the
// {status, message} verdict contract.
//
// Run with: go run test_classifier_server.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type inferenceResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func main() {
	http.HandleFunc("/inference", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "only POST is supported", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, fmt.Sprintf("bad multipart form: %v", err), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "form field 'file' is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		log.Printf("Received audio file: %s (%d bytes)", header.Filename, header.Size)

		// Filenames containing "fake" are judged FAKE so both verdict
		// paths can be exercised end to end.
		resp := inferenceResponse{
			Status:  1,
			Message: "The audio is classified as REAL.",
		}
		if strings.Contains(strings.ToLower(header.Filename), "fake") {
			resp.Message = "The audio is classified as FAKE."
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"healthy"}`)
	})

	addr := ":8081"
	log.Printf("Test classifier server listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
