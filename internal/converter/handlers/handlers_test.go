package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"gem-bridge/internal/converter/service"

	"github.com/gofiber/fiber/v3"
)

const gemFixture = `COM GEM data file exported by gem-bridge
ANT
LAYER
1
COLOUR
0
CATEGORY
1
TYPE
1
SUBTYPE
2001
COLOURRGB
16711680
IES Room_1
4 1
   0.000000    0.000000    0.000000
   1.000000    0.000000    0.000000
   1.000000    1.000000    0.000000
   0.000000    1.000000    0.000000
4 1 2 3 4
0
`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	h := NewTranslateHandler(nil, service.New(), service.NewFileStorage(t.TempDir()))

	app := fiber.New()
	app.Post("/import", h.Import)
	app.Get("/jobs", h.Jobs)
	return app
}

func TestJobsWithoutRepository(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/jobs", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"jobs"`) {
		t.Errorf("body = %s, want a jobs list", body)
	}
}

func TestImportReturnsModel(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/import?name=house", strings.NewReader(gemFixture))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"Room_1"`) {
		t.Errorf("body = %s, want the imported room", body)
	}
}

func TestImportRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/import", strings.NewReader("GARBAGE\n"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 422 {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"line"`) {
		t.Errorf("body = %s, want the error line number", body)
	}
}

func TestImportRejectsEmptyBody(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/import", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
