package types

import (
	"strings"
	"testing"
)

func TestSearchRequest_ApplyDefaults(t *testing.T) {
	req := &SearchRequest{Query: "butterfly"}
	req.ApplyDefaults()

	if req.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", req.MaxResults)
	}
	if req.Region != "us-en" {
		t.Errorf("Region = %q, want us-en", req.Region)
	}
	if req.SafeSearch != "off" {
		t.Errorf("SafeSearch = %q, want off", req.SafeSearch)
	}
	if req.Page != 1 {
		t.Errorf("Page = %d, want 1", req.Page)
	}
	if req.Backend != "auto" {
		t.Errorf("Backend = %q, want auto", req.Backend)
	}

	// Опциональные фильтры остаются пустыми
	if req.TimeLimit != "" || req.Size != "" || req.Color != "" {
		t.Error("optional filters must stay empty after ApplyDefaults")
	}
}

func TestSearchRequest_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	req := &SearchRequest{
		Query:      "cats",
		MaxResults: 50,
		Region:     "fr-fr",
		SafeSearch: "on",
		Page:       3,
		Backend:    "html",
	}
	req.ApplyDefaults()

	if req.MaxResults != 50 || req.Region != "fr-fr" || req.SafeSearch != "on" || req.Page != 3 || req.Backend != "html" {
		t.Errorf("ApplyDefaults overwrote explicit values: %+v", req)
	}
}

func TestSearchRequest_Validate(t *testing.T) {
	valid := func() *SearchRequest {
		r := &SearchRequest{Query: "butterfly"}
		r.ApplyDefaults()
		return r
	}

	tests := []struct {
		name    string
		mutate  func(*SearchRequest)
		wantErr string
	}{
		{"valid defaults", func(r *SearchRequest) {}, ""},
		{"empty query", func(r *SearchRequest) { r.Query = "   " }, "query is required"},
		{"max_results too low", func(r *SearchRequest) { r.MaxResults = 0 }, "max_results"},
		{"max_results too high", func(r *SearchRequest) { r.MaxResults = 101 }, "max_results"},
		{"page too high", func(r *SearchRequest) { r.Page = 11 }, "page"},
		{"bad region", func(r *SearchRequest) { r.Region = "nowhere" }, "region"},
		{"structural region accepted", func(r *SearchRequest) { r.Region = "de-de" }, ""},
		{"global region accepted", func(r *SearchRequest) { r.Region = "wt-wt" }, ""},
		{"bad safesearch", func(r *SearchRequest) { r.SafeSearch = "strict" }, "safesearch"},
		{"bad backend", func(r *SearchRequest) { r.Backend = "curl" }, "backend"},
		{"bad timelimit", func(r *SearchRequest) { r.TimeLimit = "hour" }, "timelimit"},
		{"valid timelimit", func(r *SearchRequest) { r.TimeLimit = "w" }, ""},
		{"bad size", func(r *SearchRequest) { r.Size = "Tiny" }, "size"},
		{"valid size", func(r *SearchRequest) { r.Size = "Wallpaper" }, ""},
		{"bad color", func(r *SearchRequest) { r.Color = "Cyan" }, "color"},
		{"bad type_image", func(r *SearchRequest) { r.TypeImage = "Drawing" }, "type_image"},
		{"valid type_image", func(r *SearchRequest) { r.TypeImage = "Transparent" }, ""},
		{"bad layout", func(r *SearchRequest) { r.Layout = "Round" }, "layout"},
		{"bad license_image", func(r *SearchRequest) { r.LicenseImage = "GPL" }, "license_image"},
		{"valid license_image", func(r *SearchRequest) { r.LicenseImage = "ShareCommercially" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			err := req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
