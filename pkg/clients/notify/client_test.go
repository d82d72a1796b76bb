package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/hatchery/internal/config"
)

func TestScheduleOneShot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/schedules" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Title != "Egg Batch Drop Reminder" || req.Body == "" {
			t.Errorf("payload = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ScheduleResponse{Handle: "h-9"})
	}))
	defer server.Close()

	client := NewClient(config.NotifyConfig{BaseURL: server.URL, Token: "tok"})
	resp, err := client.ScheduleOneShot(context.Background(), ScheduleRequest{
		TriggerAt: time.Now().Add(24 * time.Hour),
		Title:     "Egg Batch Drop Reminder",
		Body:      "Batch A is due for dropping to trays tomorrow!",
	})
	if err != nil {
		t.Fatalf("ScheduleOneShot: %v", err)
	}
	if resp.Handle != "h-9" {
		t.Errorf("handle = %q", resp.Handle)
	}
}

func TestScheduleOneShotRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "trigger timestamp is in the past"})
	}))
	defer server.Close()

	client := NewClient(config.NotifyConfig{BaseURL: server.URL})
	_, err := client.ScheduleOneShot(context.Background(), ScheduleRequest{TriggerAt: time.Now().Add(-time.Hour)})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "in the past") {
		t.Errorf("error = %v", err)
	}
}

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(config.NotifyConfig{BaseURL: server.URL})
	if err := client.Send(context.Background(), "Drop Day Digest", "Due today: A"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
