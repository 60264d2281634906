package dictionary

import "testing"

func TestInsertNameOverwrites(t *testing.T) {
	d := New()
	d.Insert("你好", PriorityName, "hello")
	d.Insert("你好", PriorityName, "hi")
	if got := d.FindExact("你好", PriorityName); got != "hi" {
		t.Fatalf("FindExact(Name) = %q, want %q", got, "hi")
	}
}

func TestInsertPhrasePromotesToHead(t *testing.T) {
	d := New()
	d.Insert("你好", PriorityPhrase, "hello")
	d.Insert("你好", PriorityPhrase, "hi")
	d.Insert("你好", PriorityPhrase, "hello") // re-insert promotes back to head
	got := d.FindExact("你好", PriorityPhrase)
	if got != "hello" {
		t.Fatalf("phrase head = %q, want %q", got, "hello")
	}
	node := d.walk("你好")
	if len(node.phrases) != 2 {
		t.Fatalf("expected exactly 2 distinct phrases, got %v", node.phrases)
	}
}

func TestFindLongestMatchNameBeatsPhrase(t *testing.T) {
	d := New()
	d.Insert("你好", PriorityPhrase, "hi")
	d.Insert("你好", PriorityName, "Bob")
	m := d.Find([]rune("你好"), 0)
	if m.Priority != PriorityName || m.Translation != "Bob" || m.Length != 2 {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestFindLongerPhraseBeatsShorter(t *testing.T) {
	d := New()
	d.Insert("你", PriorityPhrase, "A")
	d.Insert("你好", PriorityPhrase, "B")
	m := d.Find([]rune("你好"), 0)
	if m.Priority != PriorityPhrase || m.Translation != "B" || m.Length != 2 {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestFindDeepPhraseDoesNotDowngradeShallowerName(t *testing.T) {
	d := New()
	d.Insert("你", PriorityName, "You")
	d.Insert("你好", PriorityPhrase, "Hello")
	m := d.Find([]rune("你好"), 0)
	if m.Priority != PriorityName || m.Translation != "You" || m.Length != 1 {
		t.Fatalf("a deeper phrase must not shadow a shallower name: %+v", m)
	}
}

func TestFindCapturesDeepestRuleListIndependently(t *testing.T) {
	d := New()
	d.InsertRule("「", "」", "\"", "\"")
	d.Insert("「你", PriorityPhrase, "quoted-you")
	m := d.Find([]rune("「你"), 0)
	if m.Length != 2 || m.Priority != PriorityPhrase {
		t.Fatalf("expected phrase match of length 2, got %+v", m)
	}
	if len(m.Rules) != 1 || m.Rules[0].OriginalEnd != "」" {
		t.Fatalf("expected rule list captured from the shallower 「 node, got %+v", m.Rules)
	}
}

func TestReorderRoundTrips(t *testing.T) {
	d := New()
	d.Insert("你好", PriorityPhrase, "a")
	d.Insert("你好", PriorityPhrase, "b")
	d.Reorder("你好", []string{"b", "a"})
	node := d.walk("你好")
	if len(node.phrases) != 2 || node.phrases[0] != "b" || node.phrases[1] != "a" {
		t.Fatalf("reorder did not round-trip: %v", node.phrases)
	}
}

func TestRemoveMeaningIdempotent(t *testing.T) {
	d := New()
	d.Insert("你好", PriorityPhrase, "a")
	d.Insert("你好", PriorityPhrase, "b")
	d.RemoveMeaning("你好", PriorityPhrase, "a")
	first := append([]string(nil), d.walk("你好").phrases...)
	d.RemoveMeaning("你好", PriorityPhrase, "a")
	second := d.walk("你好").phrases
	if len(first) != len(second) {
		t.Fatalf("remove_meaning not idempotent: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("remove_meaning not idempotent: %v vs %v", first, second)
		}
	}
}

func TestRuleOrderDescendingByOriginalEndLength(t *testing.T) {
	d := New()
	d.InsertRule("(", ")", "", "")
	d.InsertRule("(", "))", "", "")
	d.InsertRule("(", ")))", "", "")
	node := d.walk("(")
	if len(node.rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(node.rules))
	}
	for i := 1; i < len(node.rules); i++ {
		if len([]rune(node.rules[i-1].OriginalEnd)) < len([]rune(node.rules[i].OriginalEnd)) {
			t.Fatalf("rules not sorted descending by OriginalEnd length: %v", node.rules)
		}
	}
}

func TestInsertBulkSplitsOnSeparator(t *testing.T) {
	d := New()
	value := "first" + string(Separator) + "second"
	d.InsertBulk("你好", PriorityPhrase, value)
	node := d.walk("你好")
	if len(node.phrases) != 2 || node.phrases[0] != "first" || node.phrases[1] != "second" {
		t.Fatalf("insert_bulk did not preserve order: %v", node.phrases)
	}
}

func TestFindExactRule(t *testing.T) {
	d := New()
	d.InsertRule("「", "」", "\"", "\"")
	r, ok := d.FindExactRule("「", "」")
	if !ok || r.TranslationStart != "\"" {
		t.Fatalf("FindExactRule failed: %+v, %v", r, ok)
	}
	if _, ok := d.FindExactRule("「", "】"); ok {
		t.Fatalf("FindExactRule should not match a different OriginalEnd")
	}
}

func TestNameSetOverlayRestrictedToNames(t *testing.T) {
	ns := NewNameSet()
	if ns.Active() {
		t.Fatalf("fresh NameSet should be disabled")
	}
	overlay := New()
	overlay.Insert("你好", PriorityName, "Hello")
	ns.Switch(3, overlay)
	if !ns.Active() || ns.ActiveID() != 3 {
		t.Fatalf("Switch did not activate overlay 3")
	}
	m := ns.FindInText([]rune("你好"), 0)
	if m.Priority != PriorityName || m.Translation != "Hello" {
		t.Fatalf("overlay lookup failed: %+v", m)
	}
	ns.Switch(DisabledNameSet, nil)
	if ns.Active() {
		t.Fatalf("Switch(DisabledNameSet) should disable the overlay")
	}
	if m := ns.FindInText([]rune("你好"), 0); m.Found() {
		t.Fatalf("disabled overlay must never match: %+v", m)
	}
}
