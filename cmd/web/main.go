package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/store"
)

const (
	defaultHost    = "0.0.0.0"
	defaultPort    = "8080"
	defaultSaveDir = "/app/saves"
)

//go:embed index.html
var htmlPage string

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "web"})
	if level, err := log.ParseLevel(config.GetEnv("INVADERS_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	saveDir := config.GetEnv("SSH_SAVE_DIR", defaultSaveDir)

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("starting web server", "addr", "http://"+addr, "saveDir", saveDir)
	if err := http.ListenAndServe(addr, newMux(sshHost, saveDir, logger)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func newMux(sshHost, saveDir string, logger *log.Logger) *http.ServeMux {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("GET /api/progress/{user}", func(w http.ResponseWriter, r *http.Request) {
		user := r.PathValue("user")
		gw := store.NewGateway(store.NewFile(store.UserPath(saveDir, user)), logger)
		progress, err := gw.Load()
		if err != nil {
			logger.Error("load progress", "user", user, "err", err)
			http.Error(w, "failed to load progress", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(progress); err != nil {
			logger.Warn("write progress", "user", user, "err", err)
		}
	})
	return mux
}
