package handler

import (
	"net/http"

	"github.com/mrops-br/crm-api/internal/app/service"
	"github.com/mrops-br/crm-api/internal/infrastructure/http/response"
)

// Hello handles GET /hello
func Hello(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"hello": service.HelloGreeting})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
