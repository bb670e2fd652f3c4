package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/Aierlanta/luoxu-web-ai/internal/util"
)

type healthResp struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Host     string `json:"host"`
	Platform string `json:"platform"`
	Uptime   uint64 `json:"uptime"`
}

// Health returns basic health info.
// @Summary Health check
// @ID health
// @Tags system
// @Produce json
// @Success 200 {object} healthResp
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	info, err := util.GetHostInfo(r.Context())
	if err != nil {
		log.Printf("[HTTP] host info: %v", err)
		info.Hostname, _ = os.Hostname()
	}
	writeJSON(w, http.StatusOK, healthResp{
		Status:   "ok",
		Version:  BackendVersion,
		Host:     info.Hostname,
		Platform: info.Platform,
		Uptime:   info.Uptime,
	})
}
