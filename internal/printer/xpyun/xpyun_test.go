package xpyun

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(&Config{User: "u", Password: "p", SN: "SN001"}); err != nil {
		t.Fatalf("unexpected validate error: %v", err)
	}
	if err := ValidateConfig(&Config{User: "u", Password: "p"}); err == nil {
		t.Fatalf("expected sn required error")
	}
}

func TestBuildAuthParamsSign(t *testing.T) {
	client, err := NewClient(Config{User: "demo-user", Password: "demo-pass", SN: "SN001"})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	fixed := time.UnixMilli(1700000000000)
	client.now = func() time.Time { return fixed }

	params := client.buildAuthParams()
	timestamp := params["timestamp"].(string)
	if timestamp != "1700000000000" {
		t.Fatalf("unexpected timestamp: %s", timestamp)
	}
	timestampSign := md5Hex(timestamp + "demo-pass")
	wantSign := md5Hex("demo-user," + timestamp + "," + timestampSign)
	if params["sign"] != wantSign {
		t.Fatalf("sign mismatch: got %v want %s", params["sign"], wantSign)
	}
	if params["sn"] != "SN001" {
		t.Fatalf("unexpected sn: %v", params["sn"])
	}
}

func TestPrintReceipt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/xpyun/printOrders") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		for _, key := range []string{"user", "timestamp", "sign", "sn", "content"} {
			if body[key] == nil || body[key] == "" {
				t.Fatalf("missing request field %s", key)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "ok",
			"data": map[string]interface{}{"order_id": "XP20260901000001"},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{User: "u", Password: "p", SN: "SN001", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	result, err := client.PrintReceipt(context.Background(), "<C>测试</C><BR>", 1)
	if err != nil {
		t.Fatalf("print receipt failed: %v", err)
	}
	if result.ExternalID != "XP20260901000001" {
		t.Fatalf("unexpected external id: %s", result.ExternalID)
	}
}

func TestPrintReceiptRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 1001,
			"msg":  "打印机离线",
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{User: "u", Password: "p", SN: "SN001", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	_, err = client.PrintReceipt(context.Background(), "content", 1)
	if err == nil {
		t.Fatalf("expected print rejected error")
	}
	if !strings.Contains(err.Error(), ErrPrintRejected.Error()) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryOrderState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/xpyun/queryOrderState") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "ok",
			"data": map[string]interface{}{"status": true},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{User: "u", Password: "p", SN: "SN001", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	done, err := client.QueryOrderState(context.Background(), "XP20260901000001")
	if err != nil {
		t.Fatalf("query order state failed: %v", err)
	}
	if !done {
		t.Fatalf("expected printed state true")
	}
}
