package musicapi

import (
	"strings"
	"testing"
)

func TestGenerateRequestValidateDefaultsModel(t *testing.T) {
	req := GenerateRequest{Prompt: "a calm piano ballad"}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Model != DefaultModel {
		t.Fatalf("expected default model %s, got %s", DefaultModel, req.Model)
	}
}

func TestGenerateRequestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		req  GenerateRequest
	}{
		{"empty prompt", GenerateRequest{}},
		{"whitespace prompt", GenerateRequest{Prompt: "   "}},
		{"unknown model", GenerateRequest{Prompt: "x", Model: "chirp-v99"}},
	}
	for _, tc := range cases {
		err := tc.req.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if err.Kind != KindValidation {
			t.Fatalf("%s: expected ValidationError, got %s", tc.name, err.Kind)
		}
	}
}

func TestCustomGenerateRequestValidate(t *testing.T) {
	base := CustomGenerateRequest{Prompt: "[Verse]\nhello", Tags: "synthwave", Title: "Neon"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := []CustomGenerateRequest{
		{Tags: "synthwave", Title: "Neon"},
		{Prompt: "x", Title: "Neon"},
		{Prompt: "x", Tags: "synthwave"},
	}
	for i, req := range missing {
		if err := req.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}

	bad := base
	bad.VocalGender = "x"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected vocal_gender rejection")
	}

	w := 1.5
	bad = base
	bad.StyleWeight = &w
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected weight rejection")
	}
	if !strings.Contains(err.Message, "style_weight") {
		t.Fatalf("error should name the field: %q", err.Message)
	}
}

func TestTransformRequestValidateSources(t *testing.T) {
	ok := []TransformRequest{
		{TaskID: "t1", AudioID: "a1"},
		{UploadURL: "https://cdn.example/in.mp3"},
	}
	for i, req := range ok {
		if err := req.Validate(); err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
	}

	bad := []TransformRequest{
		{},
		{TaskID: "t1"},
		{AudioID: "a1"},
		{TaskID: "t1", AudioID: "a1", UploadURL: "https://cdn.example/in.mp3"},
	}
	for i, req := range bad {
		if err := req.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestTransformRequestValidateContinueAt(t *testing.T) {
	neg := -1.0
	req := TransformRequest{TaskID: "t1", AudioID: "a1", ContinueAt: &neg}
	if err := req.Validate(); err == nil {
		t.Fatal("expected continue_at rejection")
	}
	pos := 42.5
	req = TransformRequest{TaskID: "t1", AudioID: "a1", ContinueAt: &pos}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateIDList(t *testing.T) {
	if err := ValidateIDList([]string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateIDList(nil); err == nil {
		t.Fatal("expected rejection of empty list")
	}
	if err := ValidateIDList([]string{"a", " "}); err == nil {
		t.Fatal("expected rejection of blank id")
	}

	ids := make([]string, MaxBatchIDs+1)
	for i := range ids {
		ids[i] = "id"
	}
	if err := ValidateIDList(ids); err == nil {
		t.Fatalf("expected rejection above %d ids", MaxBatchIDs)
	}
	if err := ValidateIDList(ids[:MaxBatchIDs]); err != nil {
		t.Fatalf("cap itself must be accepted: %v", err)
	}
}
