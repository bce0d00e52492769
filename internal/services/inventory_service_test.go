package services_test

import (
	"testing"

	"storefront/internal/repos"
	"storefront/internal/services"
)

func TestInventoryService_CheckAvailability(t *testing.T) {
	db := memdbAll(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db))

	// in stock (qty 5)
	a, err := svc.CheckAvailability("espresso-beans")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "IN_STOCK" || a.Qty != 5 {
		t.Fatalf("want IN_STOCK(5), got %+v", a)
	}

	// low stock (qty 2)
	a, err = svc.CheckAvailability("drip-blend")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "LOW_STOCK" || a.Qty != 2 {
		t.Fatalf("want LOW_STOCK(2), got %+v", a)
	}

	// out of stock (qty 0)
	a, err = svc.CheckAvailability("ceramic-mug")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "OUT_OF_STOCK" {
		t.Fatalf("want OUT_OF_STOCK, got %+v", a)
	}

	// unknown product reads as out of stock, not an error
	a, err = svc.CheckAvailability("ghost-item")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != "OUT_OF_STOCK" || a.Qty != 0 {
		t.Fatalf("want OUT_OF_STOCK(0), got %+v", a)
	}
}

func TestInventoryService_RestockAndSet(t *testing.T) {
	db := memdbAll(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db))

	if err := svc.Restock("ceramic-mug", 10); err != nil {
		t.Fatal(err)
	}
	if got := stockOf(t, db, "ceramic-mug"); got != 10 {
		t.Fatalf("want 10 after restock, got %d", got)
	}

	if err := svc.SetStock("ceramic-mug", 4); err != nil {
		t.Fatal(err)
	}
	if got := stockOf(t, db, "ceramic-mug"); got != 4 {
		t.Fatalf("want 4 after set, got %d", got)
	}

	if err := svc.Restock("ghost-item", 1); err == nil {
		t.Fatal("restocking an unknown product must fail")
	}

	rows, err := svc.ListStock()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("want 3 inventory rows, got %+v", rows)
	}
}
