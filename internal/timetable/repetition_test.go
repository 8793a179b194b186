package timetable

import "testing"

func TestParseRepetitions_OddRangeAlignsBounds(t *testing.T) {
	reps, err := ParseRepetitions("2-18单")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(reps) != 1 {
		t.Fatalf("expected 1 repetition, got %d", len(reps))
	}
	r := reps[0]
	if r.FromWeek != 3 || r.ToWeek != 17 || r.Parity != ParityOdd {
		t.Fatalf("expected 3-17 odd, got %+v", r)
	}
	if r.DisplayFrom != 2 || r.DisplayTo != 18 {
		t.Fatalf("display bounds changed: %+v", r)
	}
	if r.String() != "2-18单" {
		t.Fatalf("expected raw form preserved, got %q", r.String())
	}
}

func TestParseRepetitions_EvenAndListAndSingle(t *testing.T) {
	reps, err := ParseRepetitions("1-7双， 10-15, 9")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(reps) != 3 {
		t.Fatalf("expected 3 repetitions, got %d", len(reps))
	}
	if reps[0].FromWeek != 2 || reps[0].ToWeek != 6 || reps[0].Parity != ParityEven {
		t.Fatalf("unexpected even range %+v", reps[0])
	}
	if reps[1].FromWeek != 10 || reps[1].ToWeek != 15 || reps[1].Parity != ParityAll {
		t.Fatalf("unexpected plain range %+v", reps[1])
	}
	if reps[2].FromWeek != 9 || reps[2].ToWeek != 9 {
		t.Fatalf("unexpected single week %+v", reps[2])
	}
	if got := FormatRepetitions(reps); got != "1-7双, 10-15, 9" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestParseRepetitions_ReversedCollapses(t *testing.T) {
	reps, err := ParseRepetitions("4-4单")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if reps[0] != (Repetition{}) {
		t.Fatalf("expected zero repetition, got %+v", reps[0])
	}
}

func TestParseRepetitions_Malformed(t *testing.T) {
	if _, err := ParseRepetitions("a-5"); err == nil {
		t.Fatal("expected error for non-numeric week")
	}
}

func TestStandardForm_RoundTrip(t *testing.T) {
	src := []Repetition{
		{FromWeek: 3, ToWeek: 17, Parity: ParityOdd, DisplayFrom: 2, DisplayTo: 18},
		NewRepetition(1, 16, ParityAll),
	}
	text := FormatStandardRepetitions(src)
	if text != "3-17*2-18o, 1-16*1-16a" {
		t.Fatalf("unexpected standard text %q", text)
	}
	back := ParseStandardRepetitions(text)
	if len(back) != 2 || back[0] != src[0] || back[1] != src[1] {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if got := ParseStandardRepetitions("1-16"); got != nil {
		t.Fatalf("expected raw text to yield nothing, got %+v", got)
	}
}

func TestRepetition_Contains(t *testing.T) {
	r := NewRepetition(3, 17, ParityOdd)
	if !r.Contains(5) || r.Contains(4) || r.Contains(19) || r.Contains(1) {
		t.Fatalf("odd membership wrong for %+v", r)
	}
	all := NewRepetition(1, 4, ParityAll)
	if !all.Contains(2) {
		t.Fatal("expected week 2 in 1-4")
	}
}
