package version

import (
	"testing"
)

func TestBuildVersionString(t *testing.T) {
	want := "unknown"
	got := buildVersionString()

	if want != got {
		t.Errorf(`buildVersionString() = %q, want match for %#q`, got, want)
	}

	Version = "v0.3.1"
	t.Cleanup(func() { Version = "" })
	if got := buildVersionString(); got != "v0.3.1" {
		t.Errorf(`buildVersionString() = %q, want v0.3.1`, got)
	}
}
