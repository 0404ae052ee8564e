package core

import (
	"context"
	"errors"
	"testing"

	"homagio/pkg/domain"
)

func TestShoppingRowLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := mustCreateHouse(t, svc, "Shop")

	row, err := svc.AddShoppingRow(ctx, h.ID, "alice", ShoppingDraft{Name: "Paint", Qty: 0, Note: "matte"})
	if err != nil {
		t.Fatalf("add row: %v", err)
	}
	if row.ID == "" || row.Created == "" {
		t.Fatalf("row = %+v, want id and created stamped", row)
	}
	if row.Qty != 1 {
		t.Fatalf("qty = %d, want non-positive quantity defaulted to 1", row.Qty)
	}

	second, _ := svc.AddShoppingRow(ctx, h.ID, "alice", ShoppingDraft{Name: "Brushes", Qty: 3})

	list, err := svc.GetShoppingList(ctx, h.ID, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Items) != 2 || list.Items[0].ID != row.ID || list.Items[1].ID != second.ID {
		t.Fatalf("list = %+v, want insertion order by created", list.Items)
	}
	if list.Updated == "" {
		t.Fatalf("bucket updated stamp missing")
	}

	done, err := svc.UpdateShoppingRow(ctx, h.ID, "alice", row.ID, func(r *ShoppingRow) error {
		r.Done = true
		r.ID = "hijack"
		return nil
	})
	if err != nil {
		t.Fatalf("update row: %v", err)
	}
	if !done.Done || done.ID != row.ID {
		t.Fatalf("updated row = %+v", done)
	}

	if err := svc.DeleteShoppingRow(ctx, h.ID, "alice", second.ID); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	list, _ = svc.GetShoppingList(ctx, h.ID, "alice")
	if len(list.Items) != 1 || list.Items[0].ID != row.ID {
		t.Fatalf("list after delete = %+v", list.Items)
	}

	var nf NotFoundError
	if err := svc.DeleteShoppingRow(ctx, h.ID, "alice", "missing"); !errors.As(err, &nf) || nf.Entity != EntityShoppingRow {
		t.Fatalf("delete missing row: %v", err)
	}
	if _, err := svc.UpdateShoppingRow(ctx, h.ID, "bob", row.ID, nil); !errors.As(err, &nf) || nf.Entity != EntityShoppingBucket {
		t.Fatalf("update in missing bucket: %v", err)
	}
}

func TestShoppingListEmptyWithoutBucket(t *testing.T) {
	svc := newTestService(t)
	h := mustCreateHouse(t, svc, "Empty")

	list, err := svc.GetShoppingList(context.Background(), h.ID, "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Items == nil || len(list.Items) != 0 {
		t.Fatalf("list = %+v, want empty non-nil", list.Items)
	}
}

func TestShoppingBucketsIsolatedPerUserAndHouse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h1 := mustCreateHouse(t, svc, "One")
	h2 := mustCreateHouse(t, svc, "Two")

	if _, err := svc.AddShoppingRow(ctx, h1.ID, "alice", ShoppingDraft{Name: "A"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddShoppingRow(ctx, h2.ID, "alice", ShoppingDraft{Name: "B"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddShoppingRow(ctx, h1.ID, "bob", ShoppingDraft{Name: "C"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, tc := range []struct {
		house, user, want string
	}{
		{h1.ID, "alice", "A"},
		{h2.ID, "alice", "B"},
		{h1.ID, "bob", "C"},
	} {
		list, _ := svc.GetShoppingList(ctx, tc.house, tc.user)
		if len(list.Items) != 1 || list.Items[0].Name != tc.want {
			t.Fatalf("bucket (%s,%s) = %+v, want single row %q", tc.house, tc.user, list.Items, tc.want)
		}
	}
}

func TestAddShoppingRowUnknownHouse(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddShoppingRow(context.Background(), "missing", "alice", ShoppingDraft{Name: "X"})
	if !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func linkedFixture(t *testing.T, svc *Service) (houseID string, items []Item) {
	t.Helper()
	ctx := context.Background()
	h := mustCreateHouse(t, svc, "Linked")

	p1, _ := svc.AddPhoto(ctx, h.ID, PhotoInput{Label: "Kitchen"})
	p2, _ := svc.AddPhoto(ctx, h.ID, PhotoInput{Label: "Bath"})
	a, _ := svc.AddItem(ctx, h.ID, Item{Name: "Tap", PurchaseURL: "https://shop.example/tap"})
	b, _ := svc.AddItem(ctx, h.ID, Item{Name: "Tile"})

	// a linked from both photos, b from one: the union has each once.
	for _, link := range []struct{ photo, item string }{
		{p1.ID, a.ID}, {p2.ID, a.ID}, {p2.ID, b.ID},
	} {
		if err := svc.LinkItem(ctx, h.ID, link.photo, link.item); err != nil {
			t.Fatalf("link: %v", err)
		}
	}
	return h.ID, []Item{a, b}
}

func TestGenerateShoppingFromLinkedItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	houseID, items := linkedFixture(t, svc)

	drafts, err := svc.GenerateShoppingFromLinkedItems(ctx, houseID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("drafts = %+v, want one per distinct linked item", drafts)
	}
	if drafts[0].LinkedItemID != items[0].ID || drafts[0].Name != "Tap" || drafts[0].PurchaseURL != "https://shop.example/tap" {
		t.Fatalf("draft[0] = %+v", drafts[0])
	}
	if drafts[0].Qty != 1 || drafts[1].Qty != 1 {
		t.Fatalf("drafts = %+v, want qty 1", drafts)
	}

	if _, err := svc.GenerateShoppingFromLinkedItems(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("generate for missing house: %v", err)
	}
}

func TestSaveGeneratedShoppingDeduplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	houseID, _ := linkedFixture(t, svc)

	first, err := svc.SaveGeneratedShopping(ctx, houseID, "alice")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first save inserted %d rows, want 2", len(first))
	}

	second, err := svc.SaveGeneratedShopping(ctx, houseID, "alice")
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second save inserted %+v, want nothing", second)
	}
	list, _ := svc.GetShoppingList(ctx, houseID, "alice")
	if len(list.Items) != 2 {
		t.Fatalf("bucket = %+v, want 2 rows", list.Items)
	}

	// A different user's bucket is independent.
	other, err := svc.SaveGeneratedShopping(ctx, houseID, "bob")
	if err != nil {
		t.Fatalf("save for bob: %v", err)
	}
	if len(other) != 2 {
		t.Fatalf("bob inserted %d rows, want 2", len(other))
	}
}

func TestShoppingRowSurvivesItemDeletion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	houseID, items := linkedFixture(t, svc)

	if _, err := svc.SaveGeneratedShopping(ctx, houseID, "alice"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.DeleteItem(ctx, houseID, items[0].ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	list, _ := svc.GetShoppingList(ctx, houseID, "alice")
	if len(list.Items) != 2 {
		t.Fatalf("rows = %+v, want provenance rows untouched", list.Items)
	}
	found := false
	for _, row := range list.Items {
		if row.LinkedItemID == items[0].ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("provenance id cleared from rows: %+v", list.Items)
	}
}
