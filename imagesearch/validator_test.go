package imagesearch

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imagescraper/imagesearch/types"
)

// pngBytes возвращает закодированный PNG для тестовых ответов
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestURLValidator_RejectsWithoutNetworkCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	v := NewURLValidator(time.Second)
	ctx := context.Background()

	if v.Validate(ctx, "") {
		t.Error("empty URL must not validate")
	}
	if v.Validate(ctx, "ftp://example.com/a.png") {
		t.Error("non-http scheme must not validate")
	}
	if v.Validate(ctx, "example.com/a.png") {
		t.Error("schemeless URL must not validate")
	}
	if called {
		t.Error("no network call may be made for rejected URLs")
	}
}

func TestURLValidator_HeadProbeSuccess(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := NewURLValidator(time.Second)
	if !v.Validate(context.Background(), server.URL+"/photo.jpg") {
		t.Error("HEAD 200 with image content type must validate")
	}
	if gotUA != browserUserAgent {
		t.Errorf("User-Agent = %q, want browser-like header", gotUA)
	}
}

func TestURLValidator_GetFallbackDecodesImage(t *testing.T) {
	payload := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			// HEAD без Content-Type — зонд неубедителен
			w.WriteHeader(http.StatusOK)
			return
		}
		// Нарочно неверный Content-Type: решать должен декодер
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}))
	defer server.Close()

	v := NewURLValidator(time.Second)
	if !v.Validate(context.Background(), server.URL+"/image") {
		t.Error("decodable body must validate even with wrong content type")
	}
}

func TestURLValidator_GetFallbackTrustsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		// Тело не распознается как изображение, но тип заявлен верно
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<svg xmlns='http://www.w3.org/2000/svg'/>"))
	}))
	defer server.Close()

	v := NewURLValidator(time.Second)
	if !v.Validate(context.Background(), server.URL+"/vector") {
		t.Error("declared image content type must validate when decode fails")
	}
}

func TestURLValidator_NotFoundDoesNotValidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	v := NewURLValidator(time.Second)
	if v.Validate(context.Background(), server.URL+"/gone.jpg") {
		t.Error("404 must not validate")
	}
}

func TestURLValidator_TimeoutReturnsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	v := NewURLValidator(50 * time.Millisecond)

	done := make(chan bool, 1)
	go func() {
		done <- v.Validate(context.Background(), server.URL+"/slow.jpg")
	}()

	select {
	case valid := <-done:
		if valid {
			t.Error("timed out probe must return false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Validate did not return after timeout")
	}
}

func TestNeedsGoogleReferer(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://lh3.googleusercontent.com/abc", true},
		{"https://storage.googleapis.com/bucket/img.png", true},
		{"https://googleusercontent.com/abc", true},
		{"https://example.com/googleusercontent.com.png", false},
		{"https://notgoogleusercontent.com/abc", false},
		{"https://example.com/img.png", false},
	}

	for _, tt := range tests {
		if got := needsGoogleReferer(tt.url); got != tt.want {
			t.Errorf("needsGoogleReferer(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestURLValidator_FilterValid(t *testing.T) {
	payload := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if r.Method == http.MethodGet {
			w.Write(payload)
		}
	}))
	defer server.Close()

	images := []types.NormalizedImage{
		{URL: server.URL + "/a.png", Position: 1},
		{URL: server.URL + "/bad.jpg", Position: 2},
		{Thumbnail: server.URL + "/thumb.png", Position: 3}, // пустой URL — берется миниатюра
		{Position: 4}, // нет ни URL, ни миниатюры
	}

	v := NewURLValidator(time.Second)
	valid := v.FilterValid(context.Background(), images)

	if len(valid) != 2 {
		t.Fatalf("got %d valid images, want 2", len(valid))
	}
	if valid[0].Position != 1 || valid[1].Position != 3 {
		t.Errorf("FilterValid must preserve input order, got positions %d, %d", valid[0].Position, valid[1].Position)
	}
}
