package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/joho/godotenv"

	"github.com/cjstrategies/reportflow/internal/services"
)

var (
	assemblerInstance *services.ReportAssembler
	once              sync.Once
	initErr           error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Local runs pick up their environment from a .env file; deployed
	// functions get it from the runtime, so a missing file is fine.
	_ = godotenv.Load()

	// Register the HTTP function with the framework.
	// "AssembleReport" is the entry point name we'll see in GCP.
	functions.HTTP("AssembleReport", handleAssembleReport)
}

// main is required by the Go Functions Framework.
func main() {}

// handleAssembleReport is the HTTP handler.
func handleAssembleReport(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		assemblerInstance, initErr = services.NewReportAssembler(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		http.Error(w, "Bad Request: could not read body", http.StatusBadRequest)
		return
	}

	res, err := assemblerInstance.Process(r.Context(), r.Header.Get("Content-Type"), body)
	if err != nil {
		if services.IsClientError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Full diagnostic detail is logged inside the pipeline; the caller
		// only sees the triggering message.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("Failed to write response", "error", err)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
