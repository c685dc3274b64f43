package relay

import (
	"reflect"
	"testing"

	"scamtrap/internal/models"
)

func strPtr(s string) *string { return &s }

func TestParseResultCleanJSON(t *testing.T) {
	raw := `{"scam_detected":true,"scam_confidence":0.92,"persona_response":"Oh my, which account?","extracted_intelligence":{"bank_account":"1234567890123456","ifsc":"ICIC0001234"},"conversation_status":"engaging"}`

	res, parsed := ParseResult(raw)
	if !parsed {
		t.Fatalf("expected model output to parse")
	}
	want := &models.HoneypotResult{
		ScamDetected:    true,
		ScamConfidence:  0.92,
		PersonaResponse: "Oh my, which account?",
		ExtractedIntelligence: models.Intelligence{
			BankAccount: strPtr("1234567890123456"),
			IFSC:        strPtr("ICIC0001234"),
		},
		ConversationStatus: models.StatusEngaging,
	}
	if !reflect.DeepEqual(res, want) {
		t.Fatalf("parsed result mismatch:\n got %+v\nwant %+v", res, want)
	}
}

func TestParseResultJSONWrappedInProse(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n```json\n" +
		`{"scam_detected":false,"scam_confidence":0.1,"persona_response":"Hello?","conversation_status":"engaging"}` +
		"\n```\nLet me know if you need anything else."

	res, parsed := ParseResult(raw)
	if !parsed {
		t.Fatalf("expected embedded JSON to parse")
	}
	if res.ScamDetected || res.ScamConfidence != 0.1 || res.PersonaResponse != "Hello?" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestParseResultNoJSONFallsBack(t *testing.T) {
	res, parsed := ParseResult("I cannot help with that request.")
	if parsed {
		t.Fatalf("expected fallback for prose-only output")
	}
	if !reflect.DeepEqual(res, FallbackResult()) {
		t.Fatalf("expected verbatim fallback, got %+v", res)
	}
}

func TestParseResultRepairsBrokenJSON(t *testing.T) {
	// Trailing comma and single quotes, the usual model sloppiness.
	raw := `{'scam_detected': true, 'scam_confidence': 0.8, 'persona_response': 'Which branch is that?', 'conversation_status': 'engaging',}`

	res, parsed := ParseResult(raw)
	if !parsed {
		t.Fatalf("expected jsonrepair to salvage the payload")
	}
	if !res.ScamDetected || res.ScamConfidence != 0.8 {
		t.Fatalf("unexpected repaired result: %+v", res)
	}
}

func TestParseResultNestedBraces(t *testing.T) {
	raw := `prefix {"scam_detected":true,"scam_confidence":1,"persona_response":"A { in text } stays","extracted_intelligence":{"upi_id":"x@ybl"},"conversation_status":"completed"} suffix`

	res, parsed := ParseResult(raw)
	if !parsed {
		t.Fatalf("expected nested object to parse")
	}
	if res.ConversationStatus != models.StatusCompleted {
		t.Fatalf("unexpected status %q", res.ConversationStatus)
	}
	if res.ExtractedIntelligence.UPIID == nil || *res.ExtractedIntelligence.UPIID != "x@ybl" {
		t.Fatalf("unexpected intelligence: %+v", res.ExtractedIntelligence)
	}
}

func TestFallbackResultShape(t *testing.T) {
	res := FallbackResult()
	if !res.ScamDetected || res.ScamConfidence != 0.5 {
		t.Fatalf("unexpected fallback: %+v", res)
	}
	if res.PersonaResponse != "I'm not sure I understand. Could you explain that again?" {
		t.Fatalf("unexpected fallback persona: %q", res.PersonaResponse)
	}
	if res.ConversationStatus != models.StatusEngaging {
		t.Fatalf("unexpected fallback status: %q", res.ConversationStatus)
	}
}

func TestExtractJSONIgnoresBracesInStrings(t *testing.T) {
	raw := `{"persona_response":"look at this } brace and this \" quote","conversation_status":"engaging"}`
	got, ok := extractJSON("noise " + raw + " noise")
	if !ok || got != raw {
		t.Fatalf("extractJSON failed: ok=%v got=%q", ok, got)
	}
}
