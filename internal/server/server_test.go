package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"zone-marker/internal/polygon"
	"zone-marker/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "polygons.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(New(st).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postPolygon(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/polygons", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	return payload.Error
}

func listPolygons(t *testing.T, srv *httptest.Server) []polygon.Polygon {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/polygons")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var polygons []polygon.Polygon
	if err := json.NewDecoder(resp.Body).Decode(&polygons); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	return polygons
}

func TestCreateAndList(t *testing.T) {
	srv := newTestServer(t)

	resp := postPolygon(t, srv, `{"name":"Zone1","points":[[10,20],[30,20],[30,40]]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	resp.Body.Close()
	if created.Message != "Polygon created successfully" {
		t.Errorf("message = %q", created.Message)
	}

	polygons := listPolygons(t, srv)
	if len(polygons) != 1 {
		t.Fatalf("list length = %d, want 1", len(polygons))
	}
	p := polygons[0]
	if p.Name != "Zone1" || len(p.Points) != 3 || p.Points[2] != [2]float64{30, 40} {
		t.Errorf("listed polygon = %+v", p)
	}
	if p.ID == 0 {
		t.Error("listed polygon should carry its assigned id")
	}
}

func TestCreateTrimsName(t *testing.T) {
	srv := newTestServer(t)

	resp := postPolygon(t, srv, `{"name":"  Zone1  ","points":[[0,0],[10,0],[10,10]]}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	if got := listPolygons(t, srv)[0].Name; got != "Zone1" {
		t.Errorf("stored name = %q, want trimmed", got)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	srv := newTestServer(t)

	resp := postPolygon(t, srv, `{"name":"Zone1","points":[[0,0],[10,0],[10,10]]}`)
	resp.Body.Close()

	resp = postPolygon(t, srv, `{"name":"Zone1","points":[[50,50],[60,50],[60,60]]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Polygon with this name already exists" {
		t.Errorf("error = %q", got)
	}

	// A trimmed duplicate collides too.
	resp = postPolygon(t, srv, `{"name":" Zone1 ","points":[[50,50],[60,50],[60,60]]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("trimmed duplicate status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	if got := len(listPolygons(t, srv)); got != 1 {
		t.Errorf("list length after rejections = %d, want 1", got)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"no body", ``, "No data provided"},
		{"missing name", `{"points":[[0,0],[1,0],[1,1]]}`, "Name is required"},
		{"missing points", `{"name":"Zone1"}`, "Points are required"},
		{"blank name", `{"name":"   ","points":[[0,0],[1,0],[1,1]]}`, "Name must be a non-empty string"},
		{"long name", `{"name":"` + strings.Repeat("x", 101) + `","points":[[0,0],[1,0],[1,1]]}`, "Name must be less than 100 characters"},
		{"too few points", `{"name":"Zone1","points":[[0,0],[1,0]]}`, "Polygon must have at least 3 points"},
		{"negative coordinate", `{"name":"Zone1","points":[[0,0],[1,0],[-1,1]]}`, "Point 3 coordinates must be between 0 and 10000"},
		{"huge coordinate", `{"name":"Zone1","points":[[0,0],[1,0],[1,10001]]}`, "Point 3 coordinates must be between 0 and 10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postPolygon(t, srv, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if got := decodeError(t, resp); got != tt.wantErr {
				t.Errorf("error = %q, want %q", got, tt.wantErr)
			}
		})
	}

	if got := len(listPolygons(t, srv)); got != 0 {
		t.Errorf("rejected creates must not persist, list length = %d", got)
	}
}

func TestCreateTooManyPoints(t *testing.T) {
	srv := newTestServer(t)

	var sb bytes.Buffer
	sb.WriteString(`{"name":"Zone1","points":[`)
	for i := 0; i < 101; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`[1,1]`)
	}
	sb.WriteString(`]}`)

	resp := postPolygon(t, srv, sb.String())
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Polygon cannot have more than 100 points" {
		t.Errorf("error = %q", got)
	}
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)

	resp := postPolygon(t, srv, `{"name":"Zone1","points":[[0,0],[10,0],[10,10]]}`)
	resp.Body.Close()

	id := listPolygons(t, srv)[0].ID

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/polygons/"+strconv.FormatInt(id, 10), nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	if got := len(listPolygons(t, srv)); got != 0 {
		t.Errorf("list length after delete = %d, want 0", got)
	}

	// Deleting again is a 404.
	resp, err = http.DefaultClient.Do(req.Clone(req.Context()))
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Polygon not found" {
		t.Errorf("error = %q", got)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/polygons/9999", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}
