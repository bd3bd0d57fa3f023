package identity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openhwmon/nct7904-go/internal/identity"
)

func TestHostnameNonEmpty(t *testing.T) {
	if identity.Hostname() == "" {
		t.Error("Hostname() returned empty string")
	}
}

func TestVersionFallback(t *testing.T) {
	if v := identity.Version(t.TempDir()); v != identity.DefaultVersion {
		t.Errorf("Version = %q, want %q with no metadata", v, identity.DefaultVersion)
	}
}

func TestVersionFromMetadata(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(`{"version": "1.2.3"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if v := identity.Version(dir); v != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", v)
	}
}

func TestVersionCorruptMetadata(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{bad"), 0644); err != nil {
		t.Fatal(err)
	}
	if v := identity.Version(dir); v != identity.DefaultVersion {
		t.Errorf("Version = %q, want fallback on corrupt metadata", v)
	}
}
