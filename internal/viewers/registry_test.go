package viewers

import "testing"

func TestRegistry_ConnectDisconnect(t *testing.T) {
	r := New()

	r.Connect("vw-a", "10.0.0.1:1234")
	r.Connect("vw-b", "10.0.0.2:5678")
	if got := r.Count(); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}

	r.Disconnect("vw-a")
	if got := r.Count(); got != 1 {
		t.Fatalf("Count after disconnect = %d, want 1", got)
	}

	// Disconnecting an unknown id is a no-op.
	r.Disconnect("vw-missing")
	if got := r.Count(); got != 1 {
		t.Fatalf("Count after no-op disconnect = %d, want 1", got)
	}
}

func TestRegistry_RecordDelivery(t *testing.T) {
	r := New()
	r.Connect("vw-a", "10.0.0.1:1234")

	r.RecordDelivery("vw-a")
	r.RecordDelivery("vw-a")
	r.RecordDelivery("vw-gone") // no-op

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("Snapshot len = %d, want 1", len(snap))
	}
	if snap[0].Delivered != 2 {
		t.Errorf("Delivered = %d, want 2", snap[0].Delivered)
	}
}

func TestRegistry_SnapshotOrder(t *testing.T) {
	r := New()
	r.Connect("vw-b", "10.0.0.2:1")
	r.Connect("vw-a", "10.0.0.1:1")

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot len = %d, want 2", len(snap))
	}
	// Same-instant connects fall back to id order.
	if !snap[0].ConnectedAt.After(snap[1].ConnectedAt) &&
		!snap[0].ConnectedAt.Before(snap[1].ConnectedAt) &&
		snap[0].ID > snap[1].ID {
		t.Errorf("Snapshot order = [%s %s], want id tiebreak ascending", snap[0].ID, snap[1].ID)
	}
}
