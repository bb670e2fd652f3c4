package handlers

import (
	"net/http"
)

// BackendVersion is the current version of the backend.
const BackendVersion = "1.0.0"

// VersionHandler returns the backend version.
// @Summary Get version info
// @ID getVersion
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/version [get]
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"backend": BackendVersion})
}
