package version

import "testing"

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Fatalf("Version must have a default value")
	}
	// GitCommit, GitMessage and BuildDate are optional ldflags inputs.
	_ = GitCommit
	_ = GitMessage
	_ = BuildDate
}

func TestVersionOverride(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3"
	if Version != "1.2.3" {
		t.Fatalf("Version = %q, want 1.2.3", Version)
	}
}
