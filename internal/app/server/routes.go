package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"sifter/internal/auth"
)

const distDir = "./static"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeText(w http.ResponseWriter, status int, payload string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func OpenRoutes(port int, serveStatic bool) error {
	router := http.NewServeMux()

	router.HandleFunc("POST /login", loginOperator)

	router.Handle("POST /extract", auth.RequireAuth(http.HandlerFunc(extractEndpoints)))
	router.Handle("POST /render", auth.RequireAuth(http.HandlerFunc(renderEndpoints)))
	router.Handle("POST /extract/url", auth.RequireAuth(http.HandlerFunc(extractFromURL)))
	router.Handle("POST /extract/ai", auth.RequireAuth(http.HandlerFunc(extractWithAI)))

	router.Handle("GET /settings", auth.RequireAuth(http.HandlerFunc(getSettings)))
	router.Handle("POST /settings", auth.RequireAuth(http.HandlerFunc(saveSettings)))

	router.Handle("GET /jobs/count", auth.RequireAuth(http.HandlerFunc(getJobCount)))
	router.Handle("GET /jobs/page/{page}", auth.RequireAuth(http.HandlerFunc(getJobPage)))
	router.Handle("GET /jobs/{id}/render", auth.RequireAuth(http.HandlerFunc(renderJob)))
	router.Handle("DELETE /jobs", auth.RequireAuth(http.HandlerFunc(deleteJobs)))

	if serveStatic {
		fs := http.FileServer(http.Dir(distDir))

		router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				http.NotFound(w, r)
				return
			}
			path := filepath.Join(distDir, filepath.Clean(r.URL.Path))
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				fs.ServeHTTP(w, r)
				return
			}
			http.ServeFile(w, r, filepath.Join(distDir, "index.html"))
		})

		log.Debugf("Frontend assets served from %s on the same port", distDir)
	}

	log.Debug("Routes opened")

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: enableCORS(router),
	}

	log.Infof("Starting sifter backend on port :%d", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}
