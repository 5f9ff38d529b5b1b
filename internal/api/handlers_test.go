package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zyvora/zyvora/internal/search"
	"github.com/zyvora/zyvora/internal/store"
	"github.com/zyvora/zyvora/internal/student"
	"github.com/zyvora/zyvora/internal/tutor"
)

type stubTutor struct {
	reply tutor.Reply
	err   error

	userID  string
	message string
	lang    string
}

func (s *stubTutor) Reply(_ context.Context, userID, message, lang string) (tutor.Reply, error) {
	s.userID, s.message, s.lang = userID, message, lang
	return s.reply, s.err
}

func newTestHandler(t *testing.T, tut Replier) (http.Handler, store.Store) {
	t.Helper()
	st := store.NewMemory()
	if tut == nil {
		tut = &stubTutor{reply: tutor.Reply{Reply: "hi", ReplyEN: "hi", Sources: []search.Result{}}}
	}
	return NewAppHandler(AppDeps{Store: st, Tutor: tut}), st
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestDiagnostic_StoresScoredProfile(t *testing.T) {
	h, st := newTestHandler(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/diagnostic",
		`{"user_id":"u1","answers":{"q1":"sun gives energy","q2":"increase","q3":"4"},"lang":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		Profile student.Profile `json:"profile"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Profile.Proficiency != 0.94 {
		t.Errorf("Proficiency = %v, want 0.94", body.Profile.Proficiency)
	}
	if body.Profile.Policy.Style != student.StyleConcise {
		t.Errorf("Style = %q, want %q", body.Profile.Policy.Style, student.StyleConcise)
	}
	if body.Profile.Language != "hi" {
		t.Errorf("Language = %q, want %q", body.Profile.Language, "hi")
	}

	stored, err := st.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("profile was not stored: %v", err)
	}
	if stored.Proficiency != 0.94 {
		t.Errorf("stored Proficiency = %v, want 0.94", stored.Proficiency)
	}
}

func TestDiagnostic_Defaults(t *testing.T) {
	h, st := newTestHandler(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/diagnostic", `{"answers":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	stored, err := st.Get(context.Background(), "anon")
	if err != nil {
		t.Fatalf("anon profile was not stored: %v", err)
	}
	if stored.Language != "en" {
		t.Errorf("Language = %q, want default %q", stored.Language, "en")
	}
}

func TestChat_Success(t *testing.T) {
	stub := &stubTutor{reply: tutor.Reply{
		Reply:   "[hi] answer",
		ReplyEN: "answer",
		Sources: []search.Result{{Title: "t", Link: "l"}},
		Profile: student.DefaultProfile("u1", "hi"),
	}}
	h, _ := newTestHandler(t, stub)

	rec := doJSON(t, h, http.MethodPost, "/chat", `{"user_id":"u1","message":"explain tides","lang":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body tutor.Reply
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Reply != "[hi] answer" || body.ReplyEN != "answer" {
		t.Errorf("reply = %q / %q, want stub values", body.Reply, body.ReplyEN)
	}
	if stub.userID != "u1" || stub.message != "explain tides" || stub.lang != "hi" {
		t.Errorf("tutor called with (%q, %q, %q)", stub.userID, stub.message, stub.lang)
	}
}

func TestChat_DefaultsUserID(t *testing.T) {
	stub := &stubTutor{reply: tutor.Reply{Reply: "ok", ReplyEN: "ok"}}
	h, _ := newTestHandler(t, stub)

	rec := doJSON(t, h, http.MethodPost, "/chat", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.userID != "anon" {
		t.Errorf("userID = %q, want %q", stub.userID, "anon")
	}
}

func TestChat_GenerationFailureReturnsChatError(t *testing.T) {
	stub := &stubTutor{err: errors.New("generating reply: model overloaded")}
	h, _ := newTestHandler(t, stub)

	rec := doJSON(t, h, http.MethodPost, "/chat", `{"message":"explain tides"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (chat errors are payload-level)", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !strings.Contains(body["error"], "model overloaded") {
		t.Errorf("error = %q, want the generation failure", body["error"])
	}
}

func TestChat_BadRequests(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"message":`},
		{"empty message", `{"user_id":"u1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/chat", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGetProfile(t *testing.T) {
	h, st := newTestHandler(t, nil)
	if err := st.Put(context.Background(), student.NewProfile("u1", 0.4, "en")); err != nil {
		t.Fatalf("seeding profile: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/profile/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var profile student.Profile
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if profile.UserID != "u1" || profile.Proficiency != 0.4 {
		t.Errorf("profile = %+v, want stored u1", profile)
	}
}

func TestGetProfile_AbsentReturnsEmptyObject(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/profile/ghost", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
		t.Errorf("body = %q, want empty object", got)
	}
}

func TestDeleteProfile_Idempotent(t *testing.T) {
	h, st := newTestHandler(t, nil)
	if err := st.Put(context.Background(), student.NewProfile("u1", 0.4, "en")); err != nil {
		t.Fatalf("seeding profile: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec := doJSON(t, h, http.MethodDelete, "/profile/u1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("delete #%d status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
		var body map[string]bool
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if !body["ok"] {
			t.Errorf("delete #%d ok = false, want true", i+1)
		}
	}

	if _, err := st.Get(context.Background(), "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("profile still present after delete: %v", err)
	}
}
