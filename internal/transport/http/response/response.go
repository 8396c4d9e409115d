// Package response writes the API envelope shared by handlers and middleware.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

type Envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Status: true, Message: message, Data: data})
}

func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Status: false, Message: message})
}

// FailWith is Fail plus an error detail for the client.
func FailWith(w http.ResponseWriter, status int, message, detail string) {
	write(w, status, Envelope{Status: false, Message: message, Error: detail})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("ERROR encode response: %v", err)
	}
}
