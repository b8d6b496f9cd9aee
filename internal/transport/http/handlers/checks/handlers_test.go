package checkshandler

import (
	"testing"

	"rtw/internal/domain/rtw"
	"rtw/internal/transport/http/shared"
)

func validPayload() checkPayload {
	return checkPayload{
		FullName:    "Amina Hassan",
		CheckDate:   "2026-03-01",
		CheckType:   rtw.CheckTypeInitial,
		CheckMethod: rtw.CheckMethodManual,
	}
}

func TestPayloadApplyValid(t *testing.T) {
	payload := validPayload()
	payload.ExpiryDate = "2026-12-31"
	payload.EmploymentStartDate = "2026-03-02"

	var check rtw.Check
	v := shared.NewValidator()
	payload.apply(&check, v)
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
	if check.FullName != "Amina Hassan" {
		t.Fatalf("full name not applied: %q", check.FullName)
	}
	if check.ExpiryDate == nil || check.ExpiryDate.Format("2006-01-02") != "2026-12-31" {
		t.Fatalf("expiry not applied: %v", check.ExpiryDate)
	}
}

func TestPayloadApplyRequiresFullName(t *testing.T) {
	payload := validPayload()
	payload.FullName = "  "

	var check rtw.Check
	v := shared.NewValidator()
	payload.apply(&check, v)
	if !v.HasIssues() {
		t.Fatal("expected validation issues")
	}
}

func TestPayloadApplyMethodSpecificFields(t *testing.T) {
	online := validPayload()
	online.CheckMethod = rtw.CheckMethodOnline

	var check rtw.Check
	v := shared.NewValidator()
	online.apply(&check, v)
	if !v.HasIssues() {
		t.Fatal("online check without share code should be rejected")
	}

	online.ShareCode = "W12 345 678"
	v = shared.NewValidator()
	online.apply(&check, v)
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}

	idsp := validPayload()
	idsp.CheckMethod = rtw.CheckMethodIDSP
	v = shared.NewValidator()
	idsp.apply(&check, v)
	if !v.HasIssues() {
		t.Fatal("idsp check without provider should be rejected")
	}
}

func TestPayloadApplyRejectsBadDates(t *testing.T) {
	payload := validPayload()
	payload.ExpiryDate = "31/12/2026"

	var check rtw.Check
	v := shared.NewValidator()
	payload.apply(&check, v)
	if !v.HasIssues() {
		t.Fatal("expected a date format issue")
	}
}

func TestPayloadApplyRejectsEndBeforeStart(t *testing.T) {
	payload := validPayload()
	payload.EmploymentStartDate = "2026-03-01"
	payload.EmploymentEndDate = "2026-02-01"

	var check rtw.Check
	v := shared.NewValidator()
	payload.apply(&check, v)
	if !v.HasIssues() {
		t.Fatal("expected employment date ordering issue")
	}
}

func TestPayloadApplyRejectsBadVerificationAnswer(t *testing.T) {
	payload := validPayload()
	payload.VerificationAnswers = map[string]string{"likeness": "maybe"}

	var check rtw.Check
	v := shared.NewValidator()
	payload.apply(&check, v)
	if !v.HasIssues() {
		t.Fatal("expected verification answer issue")
	}
}

func TestPayloadApplyLeavesCheckUntouchedOnFailure(t *testing.T) {
	payload := validPayload()
	payload.ExpiryDate = "not-a-date"

	check := rtw.Check{FullName: "Original Name"}
	v := shared.NewValidator()
	payload.apply(&check, v)
	if check.FullName != "Original Name" {
		t.Fatalf("check mutated despite validation failure: %q", check.FullName)
	}
}
