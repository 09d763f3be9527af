package inject

import "testing"

type recordingInjector struct {
	sawEngagedOnType   bool
	sawEngagedOnDelete bool
	gate               *Gate
	typed              []string
	deleted            []int
}

func (r *recordingInjector) Type(text string) error {
	r.sawEngagedOnType = r.gate.Engaged()
	r.typed = append(r.typed, text)
	return nil
}

func (r *recordingInjector) Delete(count int) error {
	r.sawEngagedOnDelete = r.gate.Engaged()
	r.deleted = append(r.deleted, count)
	return nil
}

func TestGatedEngagesDuringInjection(t *testing.T) {
	t.Parallel()

	gate := NewGate()
	inner := &recordingInjector{gate: gate}
	gated := NewGated(inner, gate)

	if gate.Engaged() {
		t.Fatalf("gate must start lowered")
	}
	if err := gated.Type("hello "); err != nil {
		t.Fatalf("type failed: %v", err)
	}
	if !inner.sawEngagedOnType {
		t.Fatalf("gate must be engaged while typing")
	}
	if gate.Engaged() {
		t.Fatalf("gate must lower after typing")
	}

	if err := gated.Delete(2); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !inner.sawEngagedOnDelete {
		t.Fatalf("gate must be engaged while deleting")
	}
	if gate.Engaged() {
		t.Fatalf("gate must lower after deleting")
	}

	if len(inner.typed) != 1 || inner.typed[0] != "hello " {
		t.Fatalf("unexpected typed: %#v", inner.typed)
	}
	if len(inner.deleted) != 1 || inner.deleted[0] != 2 {
		t.Fatalf("unexpected deleted: %#v", inner.deleted)
	}
}
