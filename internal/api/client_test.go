package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListDecodesCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/polygons" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Zone1","points":[[10,20],[30,20],[30,40]]}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	polygons, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(polygons) != 1 {
		t.Fatalf("len = %d, want 1", len(polygons))
	}
	p := polygons[0]
	if p.ID != 1 || p.Name != "Zone1" || len(p.Points) != 3 || p.Points[0] != [2]float64{10, 20} {
		t.Errorf("polygon = %+v", p)
	}
}

func TestCreateSendsWireFormat(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/polygons" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5,"message":"Polygon created successfully"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Create(context.Background(), "Zone1", [][2]float64{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if string(body["name"]) != `"Zone1"` {
		t.Errorf("name = %s", body["name"])
	}
	// Points travel as coordinate pairs, not objects.
	if string(body["points"]) != `[[1,2],[3,4],[5,6]]` {
		t.Errorf("points = %s", body["points"])
	}
}

func TestCreateDuplicateName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"` + DuplicateNameMessage + `"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Create(context.Background(), "Zone1", [][2]float64{{1, 2}, {3, 4}, {5, 6}})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
}

func TestCreateOtherRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Points must be between 3 and 100"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Create(context.Background(), "Zone1", [][2]float64{{1, 2}, {3, 4}})
	if errors.Is(err, ErrDuplicateName) {
		t.Fatal("non-duplicate rejection must not map to ErrDuplicateName")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %T, want *StatusError", err)
	}
	if se.Code != http.StatusBadRequest || se.Message != "Points must be between 3 and 100" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestUnreachableStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)

	if _, err := c.List(context.Background()); err != nil {
		var te *TransportError
		if !errors.As(err, &te) {
			t.Errorf("List err = %T, want *TransportError", err)
		}
	} else {
		t.Error("expected List to fail against a closed server")
	}

	err := c.Create(context.Background(), "Zone1", [][2]float64{{1, 2}, {3, 4}, {5, 6}})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("Create err = %T, want *TransportError", err)
	}
}

func TestDelete(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"Polygon deleted successfully"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Delete(context.Background(), 42); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/polygons/42" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestDeleteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Polygon not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Delete(context.Background(), 99)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("err = %v, want 404 StatusError", err)
	}
}
