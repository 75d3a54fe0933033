package netx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPutPresigned(t *testing.T) {
	photo := []byte{0xff, 0xd8, 0xff, 0xd9}

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := PutPresigned(context.Background(), ts.Client(), ts.URL+"/u1/2024-01-01.jpg?X-Amz-Signature=abc", photo, "image/jpeg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPut {
			t.Fatalf("method = %q, want PUT", gotMethod)
		}
		if gotCT != "image/jpeg" {
			t.Fatalf("Content-Type = %q, want image/jpeg", gotCT)
		}
		if !bytes.Equal(gotBody, photo) {
			t.Fatalf("body = %x, want %x", gotBody, photo)
		}
	})

	t.Run("non-200 -> error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		err := PutPresigned(context.Background(), nil, ts.URL, photo, "image/jpeg")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "upload failed: 403") {
			t.Fatalf("error = %q, want to contain 403", err.Error())
		}
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		if err := PutPresigned(context.Background(), nil, ts.URL, photo, "image/jpeg"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/media/u1/a.jpg" {
			http.Redirect(w, r, "/blob/a", http.StatusFound)
			return
		}
		if r.URL.Path == "/blob/a" {
			_, _ = w.Write([]byte("jpeg"))
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	got, err := Fetch(context.Background(), ts.Client(), ts.URL+"/media/u1/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "jpeg" {
		t.Fatalf("body = %q", got)
	}

	if _, err := Fetch(context.Background(), ts.Client(), ts.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}
