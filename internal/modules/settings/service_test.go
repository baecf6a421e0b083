package settings

import (
	"context"
	"encoding/json"
	"testing"
)

type fakeRepo struct {
	docs map[string][]byte
}

func newFakeRepo() *fakeRepo { return &fakeRepo{docs: make(map[string][]byte)} }

func (f *fakeRepo) Get(_ context.Context, scope string) ([]byte, error) {
	doc, ok := f.docs[scope]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (f *fakeRepo) Save(_ context.Context, scope string, doc []byte) error {
	f.docs[scope] = doc
	return nil
}

func stringVal(t *testing.T, doc Document, key string) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(doc[key], &s); err != nil {
		t.Fatalf("key %q = %s: %v", key, doc[key], err)
	}
	return s
}

func TestGet_ReturnsDefaultsForEmptyScope(t *testing.T) {
	svc := NewService(newFakeRepo())

	doc, err := svc.Get(context.Background(), DefaultScope)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := stringVal(t, doc, "theme"); got != "dark" {
		t.Fatalf("theme = %q, want default", got)
	}
	if got := stringVal(t, doc, "lastCatalog"); got != "services" {
		t.Fatalf("lastCatalog = %q, want default", got)
	}
}

func TestUpdate_MergesPartialPatch(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	doc, err := svc.Update(ctx, DefaultScope, Document{"theme": json.RawMessage(`"light"`)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := stringVal(t, doc, "theme"); got != "light" {
		t.Fatalf("theme = %q after patch", got)
	}
	// Untouched keys survive the partial update.
	if got := stringVal(t, doc, "lastCatalog"); got != "services" {
		t.Fatalf("lastCatalog = %q, want untouched default", got)
	}

	// A later Get sees the persisted merge.
	doc, err = svc.Get(ctx, DefaultScope)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := stringVal(t, doc, "theme"); got != "light" {
		t.Fatalf("theme = %q after reload", got)
	}
}

func TestUpdate_NullRemovesKeyAndDefaultReturns(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Update(ctx, DefaultScope, Document{"theme": json.RawMessage(`"light"`)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	doc, err := svc.Update(ctx, DefaultScope, Document{"theme": json.RawMessage(`null`)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	// With the override gone the default shows through again.
	if got := stringVal(t, doc, "theme"); got != "dark" {
		t.Fatalf("theme = %q, want default after null", got)
	}
}

func TestUpdate_ScopesAreIndependent(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Update(ctx, "alice", Document{"theme": json.RawMessage(`"light"`)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := svc.Get(ctx, "bob")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := stringVal(t, doc, "theme"); got != "dark" {
		t.Fatalf("bob's theme = %q, leaked from alice's scope", got)
	}
}

func TestUpdate_AcceptsUnknownKeys(t *testing.T) {
	svc := NewService(newFakeRepo())

	doc, err := svc.Update(context.Background(), DefaultScope, Document{"sidebarWidth": json.RawMessage(`240`)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	var width int
	if err := json.Unmarshal(doc["sidebarWidth"], &width); err != nil || width != 240 {
		t.Fatalf("sidebarWidth = %s (%v)", doc["sidebarWidth"], err)
	}
}
