package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHttpRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" || r.Header.Get("X-Task") != "7" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var payload map[string]int
		if err := json.Unmarshal(body, &payload); err != nil || payload["task_id"] != 7 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	body, err := HttpRequest(http.MethodPost, server.URL, map[string]string{"X-Task": "7"}, map[string]int{"task_id": 7})
	if err != nil {
		t.Fatalf("HttpRequest failed: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("Unexpected body %s", body)
	}

	if _, err := HttpRequest(http.MethodPost, server.URL, nil, nil); err == nil {
		t.Error("Expected an error for a 400 response")
	}
}
