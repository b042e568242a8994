package bigquery

import (
	"context"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected error from nil client ping")
	}
	if _, err := c.Query(context.Background(), "SELECT 1", nil); err == nil {
		t.Fatal("expected error from nil client query")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on nil client should be a no-op, got %v", err)
	}
	if c.EventsTableID() != "" {
		t.Fatal("nil client should yield empty table id")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&googleapi.Error{Code: http.StatusNotFound}) {
		t.Fatal("404 should be not-found")
	}
	if isNotFound(&googleapi.Error{Code: http.StatusForbidden}) {
		t.Fatal("403 should not be not-found")
	}
	if isNotFound(context.Canceled) {
		t.Fatal("non-api errors should not be not-found")
	}
}
