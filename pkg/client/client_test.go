package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/helvik/itemd/pkg/httpapi"
	"github.com/helvik/itemd/pkg/registry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(httpapi.New(registry.NewStore(), "itemd", 5*time.Second).Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	created, err := c.Create(ctx, 1, "a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 || created.Name != "a" {
		t.Fatalf("Create returned %+v", created)
	}

	got, err := c.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "a" {
		t.Fatalf("Get returned %+v", got)
	}

	updated, err := c.Update(ctx, 1, "b")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "b" {
		t.Fatalf("Update returned %+v", updated)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 {
		t.Fatalf("List returned %+v", list)
	}

	if err := c.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, 1); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Get after Delete: want ErrNotFound, got %v", err)
	}
}

func TestClientErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.Get(ctx, 9); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Get absent: want ErrNotFound, got %v", err)
	}
	if _, err := c.Update(ctx, 9, "x"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Update absent: want ErrNotFound, got %v", err)
	}
	if err := c.Delete(ctx, 9); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Delete absent: want ErrNotFound, got %v", err)
	}

	if _, err := c.Create(ctx, 1, "a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := c.Create(ctx, 1, "b"); !errors.Is(err, registry.ErrAlreadyExists) {
		t.Fatalf("duplicate Create: want ErrAlreadyExists, got %v", err)
	}
}

func TestClientPercentEncodesNames(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	const name = "a b&c=d?e"
	if _, err := c.Create(ctx, 1, name); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := c.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != name {
		t.Fatalf("Get.Name = %q, want %q", got.Name, name)
	}
}
