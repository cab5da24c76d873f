package server

import (
	"encoding/json"
	"net/http"

	"sifter/internal/api/dto"
	"sifter/internal/auth"
)

// loginOperator exchanges the operator access password for a bearer token.
func loginOperator(w http.ResponseWriter, r *http.Request) {
	if !auth.Enabled() {
		writeError(w, "Authentication is not configured", http.StatusNotFound)
		return
	}

	var credentials dto.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if !auth.CheckAccessPassword(credentials.Password) {
		writeError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT("operator")
	if err != nil {
		writeError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
