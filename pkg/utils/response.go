package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON 发送JSON响应；payload 为 nil 时只写状态码
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[http] failed to encode response: %v", err)
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}
