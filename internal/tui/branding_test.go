package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestShowBanner(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "1.0.0-test")
	out := buf.String()

	if !strings.Contains(out, "media player shell") {
		t.Errorf("Expected banner to contain tagline, got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
	if !strings.Contains(out, "h for help") {
		t.Errorf("Expected banner to mention help, got: %s", out)
	}
}

func TestBannerDevVersion(t *testing.T) {
	out := Banner("dev")
	if strings.Contains(out, "vdev") || strings.Contains(out, " dev") {
		t.Errorf("dev builds should not show a version, got: %s", out)
	}
}

func TestLogoConstants(t *testing.T) {
	if len(LogoLines) == 0 {
		t.Fatal("Expected logo lines")
	}
	if len(BannerColors) == 0 {
		t.Fatal("Expected banner colors")
	}
}
