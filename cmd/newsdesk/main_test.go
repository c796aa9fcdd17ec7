package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/johnrirwin/newsdesk/internal/models"
	"github.com/johnrirwin/newsdesk/internal/testutil"
)

type cliHarness struct {
	backend *testutil.Backend
	env     map[string]string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	backend := testutil.NewBackend(t)
	return &cliHarness{
		backend: backend,
		env: map[string]string{
			"NEWSDESK_API_URL": backend.URL(),
			"SESSION_BACKEND":  "file",
			"SESSION_PATH":     t.TempDir(),
			"LOG_LEVEL":        "error",
		},
	}
}

func (h *cliHarness) run(stdin string, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	getenv := func(key string) string { return h.env[key] }
	code = run(context.Background(), args, getenv, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *cliHarness) login(t *testing.T) {
	t.Helper()
	h.backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, testutil.OK(map[string]interface{}{
		"token": "tok-1",
		"user":  models.User{ID: "u1", Username: "editor", Role: "admin"},
	}))
	if code, _, stderr := h.run("", "login", "-u", "editor", "-p", "secret"); code != exitOK {
		t.Fatalf("login exit = %d, stderr %s", code, stderr)
	}
}

func TestRun_Usage(t *testing.T) {
	h := newCLIHarness(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"frobnicate"}, exitUsage},
		{"bad global flag", []string{"-no-such-flag", "stats"}, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := h.run("", tt.args...)
			if code != tt.want {
				t.Errorf("exit = %d, want %d", code, tt.want)
			}
			if !strings.Contains(stderr, "Usage") && tt.name != "bad global flag" {
				t.Errorf("stderr should carry usage, got %q", stderr)
			}
		})
	}
}

func TestRun_RequiresLogin(t *testing.T) {
	h := newCLIHarness(t)

	code, _, stderr := h.run("", "stats")
	if code != exitAuth {
		t.Fatalf("exit = %d, want %d", code, exitAuth)
	}
	if !strings.Contains(stderr, "newsdesk login") {
		t.Errorf("stderr = %q", stderr)
	}
	if len(h.backend.Requests()) != 0 {
		t.Error("no request expected without a session")
	}
}

func TestLogin_PersistsAcrossRuns(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)

	code, stdout, _ := h.run("", "whoami")
	if code != exitOK {
		t.Fatalf("whoami exit = %d", code)
	}
	if !strings.Contains(stdout, "editor") {
		t.Errorf("whoami = %q", stdout)
	}

	if code, _, _ := h.run("", "logout"); code != exitOK {
		t.Fatalf("logout exit = %d", code)
	}
	if _, stdout, _ := h.run("", "whoami"); !strings.Contains(stdout, "Giriş yapılmamış") {
		t.Errorf("whoami after logout = %q", stdout)
	}
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	h := newCLIHarness(t)
	h.backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, testutil.OK(map[string]interface{}{
		"token": "tok-1",
		"user":  models.User{ID: "u1", Username: "editor"},
	}))

	code, stdout, stderr := h.run("secret\n", "login", "-u", "editor")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, stderr)
	}
	if !strings.Contains(stdout, "Giriş başarılı") {
		t.Errorf("stdout = %q", stdout)
	}

	var creds models.LoginCredentials
	if err := json.Unmarshal(h.backend.Last(t).Body, &creds); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if creds.Password != "secret" {
		t.Errorf("password = %q, want secret", creds.Password)
	}
}

func TestLogin_Rejected(t *testing.T) {
	h := newCLIHarness(t)
	h.backend.JSON(http.MethodPost, "/auth/login", http.StatusUnauthorized, map[string]interface{}{
		"success": false, "error": "Kullanıcı adı veya şifre hatalı",
	})

	code, _, stderr := h.run("", "login", "-u", "editor", "-p", "nope")
	if code != exitError {
		t.Fatalf("exit = %d, want %d", code, exitError)
	}
	if !strings.Contains(stderr, "Kullanıcı adı veya şifre hatalı") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestArticles(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)
	h.backend.JSON(http.MethodGet, "/articles", http.StatusOK, testutil.OK(map[string]interface{}{
		"articles": []map[string]interface{}{
			{"id": "a1", "title": "Derbi sonucu", "source": map[string]interface{}{"name": "Spor Kaynağı"}},
		},
		"pagination": models.NewPagination(1, 20, 1),
	}))

	code, stdout, stderr := h.run("", "articles", "-categories", "spor", "-from", "2024-03-01")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, stderr)
	}
	for _, want := range []string{"Derbi sonucu", "Spor Kaynağı", "Sayfa 1/1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if got := h.backend.Last(t).Header.Get("Authorization"); got != "Bearer tok-1" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestSessionExpiredHint(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)
	h.backend.JSON(http.MethodGet, "/articles/statistics", http.StatusUnauthorized, map[string]interface{}{"success": false})

	code, _, stderr := h.run("", "stats")
	if code != exitAuth {
		t.Fatalf("exit = %d, want %d", code, exitAuth)
	}
	if !strings.Contains(stderr, reloginHint) {
		t.Errorf("stderr = %q", stderr)
	}
	if _, stdout, _ := h.run("", "whoami"); !strings.Contains(stdout, "Giriş yapılmamış") {
		t.Error("session should be cleared after a 401")
	}
}

func TestFeedsUpdate_SendsOnlyChangedFields(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)
	h.backend.JSON(http.MethodPut, "/feeds/f1", http.StatusOK, testutil.OK(map[string]interface{}{"id": "f1", "name": "Haber"}))

	code, _, stderr := h.run("", "feeds", "update", "-active", "false", "f1")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, stderr)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(h.backend.Last(t).Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["isActive"] != false {
		t.Errorf("isActive = %v, want false", body["isActive"])
	}
	if _, ok := body["name"]; ok {
		t.Error("name should not be sent")
	}
}

func TestFeeds_UnknownSubcommand(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)

	if code, _, _ := h.run("", "feeds", "rename"); code != exitUsage {
		t.Errorf("exit = %d, want %d", code, exitUsage)
	}
}

func TestReportShow(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)
	h.backend.JSON(http.MethodGet, "/analytics/report/r1", http.StatusOK, testutil.OK(map[string]interface{}{
		"id":           "r1",
		"type":         "weekly",
		"articleCount": 80,
		"summary":      `{"reportTitle":"Haftalık Özet","statistics":{"positive":2,"negative":1,"neutral":1},"conclusion":"Sakin bir hafta."}`,
		"wordCloud":    []map[string]interface{}{{"word": "ekonomi", "count": 12}},
	}))

	code, stdout, stderr := h.run("", "report", "show", "r1")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, stderr)
	}
	for _, want := range []string{"Haftalık Özet", "Pozitif 2 (%50)", "Sakin bir hafta.", "ekonomi"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestReport_InvalidType(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)

	if code, _, _ := h.run("", "report", "latest", "-type", "yearly"); code != exitUsage {
		t.Errorf("exit = %d, want %d", code, exitUsage)
	}
}

func TestReportLatest_None(t *testing.T) {
	h := newCLIHarness(t)
	h.login(t)
	h.backend.JSON(http.MethodGet, "/analytics/report/latest", http.StatusOK, map[string]interface{}{"success": true, "data": nil})

	code, stdout, _ := h.run("", "report", "latest", "-type", "monthly")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout, "aylık rapor") {
		t.Errorf("stdout = %q", stdout)
	}
}
