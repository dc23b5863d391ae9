package stories

import (
	"strings"
	"testing"
)

func TestComposeDailyCoversDays(t *testing.T) {
	for day := 1; day <= 4; day++ {
		email, ok := ComposeDaily("noelle@example.com", "Holly", "Noelle", day, "", "")
		if !ok {
			t.Fatalf("expected a story for day %d", day)
		}
		if email.To != "noelle@example.com" {
			t.Errorf("day %d: wrong recipient %s", day, email.To)
		}
		if email.DayNumber != day {
			t.Errorf("day %d: email reports day %d", day, email.DayNumber)
		}
		if !strings.Contains(email.Subject, "Noelle") {
			t.Errorf("day %d: subject should name the child: %s", day, email.Subject)
		}
		if !strings.Contains(email.Body, "Holly") {
			t.Errorf("day %d: body should greet the parent", day)
		}
		if strings.Contains(email.Body, "SPECIAL DELIVERY") {
			t.Errorf("day %d: no asset links requested, none should appear", day)
		}
	}
}

func TestComposeDailyOutsideRange(t *testing.T) {
	for _, day := range []int{0, 5, -1, 100} {
		if _, ok := ComposeDaily("a@b.c", "A", "B", day, "", ""); ok {
			t.Errorf("expected no story for day %d", day)
		}
	}
}

func TestComposeDailyIncludesAssetLinks(t *testing.T) {
	email, ok := ComposeDaily("noelle@example.com", "Holly", "Noelle", 4,
		"https://letters.example/santa.pdf", "https://letters.example/cert.pdf")
	if !ok {
		t.Fatal("expected a story for day 4")
	}
	if !strings.Contains(email.Body, "https://letters.example/santa.pdf") {
		t.Error("expected santa letter link in body")
	}
	if !strings.Contains(email.Body, "https://letters.example/cert.pdf") {
		t.Error("expected certificate link in body")
	}
}
