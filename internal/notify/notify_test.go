package notify

import "testing"

func TestPublishFansOut(t *testing.T) {
	n := New()

	var seen []Notification
	n.Subscribe(func(note Notification) { seen = append(seen, note) })

	n.Success("criado")
	n.Error("falhou")

	if len(seen) != 2 {
		t.Fatalf("subscriber saw %d notifications, want 2", len(seen))
	}
	if seen[0].Level != LevelSuccess || seen[1].Level != LevelError {
		t.Errorf("levels = %v, %v", seen[0].Level, seen[1].Level)
	}
	if seen[1].Duration <= seen[0].Duration {
		t.Error("errors should linger longer than successes")
	}
}

func TestRecentRing(t *testing.T) {
	n := New()
	for i := 0; i < 30; i++ {
		n.Info("x")
	}
	if got := len(n.Recent()); got != 20 {
		t.Errorf("retained %d notifications, want 20", got)
	}

	n.Dismiss()
	if got := len(n.Recent()); got != 0 {
		t.Errorf("retained %d after dismiss", got)
	}
}
