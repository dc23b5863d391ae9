package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"letterstosanta.app/cloud/internal/stories"
	"letterstosanta.app/cloud/internal/testutil"
	"letterstosanta.app/cloud/models"
)

func TestAdvanceRequiresCronSecret(t *testing.T) {
	ts := newTestServer(t)
	testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)

	for _, header := range []string{"", "Bearer wrong", "cron-secret"} {
		w := ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil, "Authorization", header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}

	children, _ := ts.Storage.ListAdvanceableChildren(context.Background())
	if children[0].MilestoneIndex != 0 {
		t.Error("rejected run must not advance anyone")
	}
}

func TestAdvanceMovesOneStepAndNotifies(t *testing.T) {
	ts := newTestServer(t)
	_, child, _ := testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)
	testutil.SetChildMilestone(ts.Storage, child, 2)

	w := ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil,
		"Authorization", "Bearer cron-secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["advanced"].(float64) != 1 || body["notified"].(float64) != 1 {
		t.Errorf("expected 1 advanced and 1 notified, got %v", body)
	}

	got, _ := ts.Storage.GetChild(context.Background(), child.ID)
	if got.MilestoneIndex != 3 {
		t.Errorf("expected index 3, got %d", got.MilestoneIndex)
	}
	if got.CurrentMilestone != models.MilestoneAt(3).ID {
		t.Errorf("milestone name out of step with index: %s", got.CurrentMilestone)
	}
	if got.CurrentStoryText != models.MilestoneAt(3).StoryText {
		t.Error("story text should follow the new stage")
	}

	if len(ts.DailyMails.Payloads) != 1 {
		t.Fatalf("expected 1 story email, got %d", len(ts.DailyMails.Payloads))
	}
	email, ok := ts.DailyMails.Payloads[0].(stories.Email)
	if !ok {
		t.Fatalf("unexpected payload type %T", ts.DailyMails.Payloads[0])
	}
	if email.To != "holly@example.com" || email.DayNumber != 3 {
		t.Errorf("unexpected email: %+v", email)
	}
}

func TestAdvanceFirstStepEmailsDayOne(t *testing.T) {
	ts := newTestServer(t)
	testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)

	w := ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil,
		"Authorization", "Bearer cron-secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Index 0 -> 1 is the first emailable day.
	body := decodeBody(t, w)
	if body["advanced"].(float64) != 1 || body["notified"].(float64) != 1 {
		t.Errorf("expected day 1 email after first advance, got %v", body)
	}
}

func TestAdvanceDoesNotEmailFreeTier(t *testing.T) {
	ts := newTestServer(t)
	_, child, _ := testutil.CreateTestCustomer(ts.Storage, "free@example.com", models.TierFree)
	testutil.SetChildMilestone(ts.Storage, child, 1)

	w := ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil,
		"Authorization", "Bearer cron-secret")
	body := decodeBody(t, w)
	if body["advanced"].(float64) != 1 {
		t.Errorf("free-tier child still advances, got %v", body)
	}
	if body["notified"].(float64) != 0 || len(ts.DailyMails.Payloads) != 0 {
		t.Error("free tier must not receive story emails")
	}

	got, _ := ts.Storage.GetChild(context.Background(), child.ID)
	if got.MilestoneIndex != 2 {
		t.Errorf("expected index 2, got %d", got.MilestoneIndex)
	}
}

func TestAdvanceSkipsTerminalChildren(t *testing.T) {
	ts := newTestServer(t)
	_, child, _ := testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)
	testutil.SetChildMilestone(ts.Storage, child, models.FinalMilestoneIndex())

	w := ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil,
		"Authorization", "Bearer cron-secret")
	body := decodeBody(t, w)
	if body["advanced"].(float64) != 0 {
		t.Errorf("terminal child must not advance, got %v", body)
	}

	got, _ := ts.Storage.GetChild(context.Background(), child.ID)
	if got.MilestoneIndex != models.FinalMilestoneIndex() {
		t.Errorf("terminal child moved to %d", got.MilestoneIndex)
	}
}

func TestAdvanceDeliveryDayCarriesAssetLinks(t *testing.T) {
	ts := newTestServer(t)
	_, child, _ := testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)
	testutil.SetChildMilestone(ts.Storage, child, models.FinalMilestoneIndex()-2)

	ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil,
		"Authorization", "Bearer cron-secret")

	if len(ts.DailyMails.Payloads) != 1 {
		t.Fatalf("expected 1 email, got %d", len(ts.DailyMails.Payloads))
	}
	email := ts.DailyMails.Payloads[0].(stories.Email)
	if !strings.Contains(email.Body, "/santa-letter/"+child.ID) {
		t.Error("delivery-day email should link the personal reply")
	}
	if !strings.Contains(email.Body, "/certificate/"+child.ID) {
		t.Error("delivery-day email should link the certificate")
	}
}

func TestAdvanceHandlesManyChildrenIndependently(t *testing.T) {
	ts := newTestServer(t)
	_, first, _ := testutil.CreateTestCustomer(ts.Storage, "a@example.com", models.TierMagic)
	_, second, _ := testutil.CreateTestCustomer(ts.Storage, "b@example.com", models.TierMagic)
	testutil.SetChildMilestone(ts.Storage, first, 1)
	testutil.SetChildMilestone(ts.Storage, second, 3)

	w := ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil,
		"Authorization", "Bearer cron-secret")
	body := decodeBody(t, w)
	if body["advanced"].(float64) != 2 {
		t.Fatalf("expected both children to advance, got %v", body)
	}

	ctx := context.Background()
	gotFirst, _ := ts.Storage.GetChild(ctx, first.ID)
	gotSecond, _ := ts.Storage.GetChild(ctx, second.ID)
	if gotFirst.MilestoneIndex != 2 || gotSecond.MilestoneIndex != 4 {
		t.Errorf("children moved to %d and %d", gotFirst.MilestoneIndex, gotSecond.MilestoneIndex)
	}
}

func TestAdvanceEmailFailureStillAdvances(t *testing.T) {
	ts := newTestServer(t)
	_, child, _ := testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)
	testutil.SetChildMilestone(ts.Storage, child, 1)
	ts.DailyMails.Fail = true

	w := ts.do(t, http.MethodPost, "/api/v1/trackers/advance", nil,
		"Authorization", "Bearer cron-secret")
	body := decodeBody(t, w)
	if body["advanced"].(float64) != 1 {
		t.Error("email failure must not block progression")
	}
	if body["notified"].(float64) != 0 {
		t.Error("failed email must not count as notified")
	}

	got, _ := ts.Storage.GetChild(context.Background(), child.ID)
	if got.MilestoneIndex != 2 {
		t.Errorf("expected index 2, got %d", got.MilestoneIndex)
	}
}
