package streaminfo

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := missingElement("Cues")
	want := "MEDIA/MissingRequiredElement: required element Cues is missing"
	if err.Error() != want {
		t.Fatalf("Error()=%q, want %q", err.Error(), want)
	}
	if err.Element != "Cues" {
		t.Fatalf("Element=%q, want Cues", err.Element)
	}
}

func TestErrorMatching(t *testing.T) {
	err := drmError(CodeNoCommonKeySystem, "no overlap")
	if !errors.Is(err, &Error{Category: CategoryDRM, Code: CodeNoCommonKeySystem}) {
		t.Fatalf("errors.Is failed to match category and code")
	}
	if errors.Is(err, &Error{Category: CategoryMedia, Code: CodeNoCommonKeySystem}) {
		t.Fatalf("errors.Is matched across categories")
	}

	wrapped := fmt.Errorf("loading manifest: %w", err)
	if !IsCode(wrapped, CodeNoCommonKeySystem) {
		t.Fatalf("IsCode failed through wrapping")
	}
	if IsCode(wrapped, CodeBadPsshEncoding) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if IsCode(errors.New("plain"), CodeNoCommonKeySystem) {
		t.Fatalf("IsCode matched a plain error")
	}
}
