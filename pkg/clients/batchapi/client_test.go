package batchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mamadbah2/hatchery/internal/config"
)

func TestListBatchesSendsBearerTokenAndScope(t *testing.T) {
	var gotAuth, gotFarm string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFarm = r.URL.Query().Get("farm")
		if r.Method != http.MethodGet || r.URL.Path != "/batches" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]BatchRecord{
			{ID: "b1", BatchName: "A", InputDate: "2024-01-01", EggCount: 100, HatchedCount: 80, HatchRate: 80},
		})
	}))
	defer server.Close()

	client := NewClient(config.BatchAPIConfig{BaseURL: server.URL, Token: "tok"})
	records, err := client.ListBatches(context.Background(), "farm1")
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}

	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotFarm != "farm1" {
		t.Errorf("farm = %q", gotFarm)
	}
	if len(records) != 1 || records[0].ID != "b1" || records[0].HatchRate != 80 {
		t.Errorf("records = %+v", records)
	}
}

func TestCreateBatchPayloadAndResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/batches" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req CreateBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.BatchName != "A" || req.InputDate != "2024-01-01" || req.EggCount != 100 || req.Farm != "farm1" {
			t.Errorf("payload = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(BatchRecord{ID: "new-id", BatchName: req.BatchName, InputDate: req.InputDate, EggCount: req.EggCount})
	}))
	defer server.Close()

	client := NewClient(config.BatchAPIConfig{BaseURL: server.URL, Token: "tok"})
	record, err := client.CreateBatch(context.Background(), CreateBatchRequest{
		BatchName: "A", InputDate: "2024-01-01", EggCount: 100, Farm: "farm1",
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if record.ID != "new-id" {
		t.Errorf("id = %q", record.ID)
	}
}

func TestUpdateHatchedCountPathAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/batches/b1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]int
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["hatched_count"] != 80 {
			t.Errorf("hatched_count = %d", body["hatched_count"])
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(BatchRecord{ID: "b1", HatchedCount: 80, HatchRate: 80})
	}))
	defer server.Close()

	client := NewClient(config.BatchAPIConfig{BaseURL: server.URL, Token: "tok"})
	record, err := client.UpdateHatchedCount(context.Background(), "b1", 80)
	if err != nil {
		t.Fatalf("UpdateHatchedCount: %v", err)
	}
	if record.HatchRate != 80 {
		t.Errorf("hatch_rate = %v", record.HatchRate)
	}
}

func TestErrorResponsesSurfaceMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	defer server.Close()

	client := NewClient(config.BatchAPIConfig{BaseURL: server.URL, Token: "tok"})
	_, err := client.ListBatches(context.Background(), "farm1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "token expired") || !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v", err)
	}
}

func TestSignInAdoptsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/signin":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["email"] != "op@farm1.test" || body["password"] != "secret" {
				t.Errorf("credentials = %v", body)
			}
			_ = json.NewEncoder(w).Encode(SignInResponse{Token: "fresh-token", FarmName: "farm1"})
		case "/batches":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode([]BatchRecord{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(config.BatchAPIConfig{BaseURL: server.URL})
	resp, err := client.SignIn(context.Background(), "op@farm1.test", "secret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if resp.FarmName != "farm1" {
		t.Errorf("farm_name = %q", resp.FarmName)
	}

	if _, err := client.ListBatches(context.Background(), "farm1"); err != nil {
		t.Fatalf("ListBatches after sign in: %v", err)
	}
	if gotAuth != "Bearer fresh-token" {
		t.Errorf("Authorization after sign in = %q", gotAuth)
	}
}
