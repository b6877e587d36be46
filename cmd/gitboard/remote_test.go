package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	in := RemotesConfig{
		Active: "prod",
		Remotes: map[string]Remote{
			"prod":  {URL: "https://board.example.com", NATSURL: "nats://prod:4222", Description: "production relay"},
			"local": {URL: "http://localhost:8080"},
		},
	}
	if err := saveRemotesConfig(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := loadRemotesConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Active != "prod" {
		t.Errorf("Active = %q, want %q", got.Active, "prod")
	}
	prod := got.Remotes["prod"]
	if prod.URL != "https://board.example.com" || prod.NATSURL != "nats://prod:4222" || prod.Description != "production relay" {
		t.Errorf("prod remote = %+v, wrong values", prod)
	}
	if got.Remotes == nil {
		t.Error("Remotes map must not be nil after load")
	}
}

func TestLoadRemotesConfig_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadRemotesConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Active != "" || len(cfg.Remotes) != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveRemotesConfig_Permissions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := saveRemotesConfig(RemotesConfig{Remotes: map[string]Remote{}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	path, _ := remoteConfigPath()
	check := func(p string, want os.FileMode) {
		t.Helper()
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if got := info.Mode().Perm(); got != want {
			t.Errorf("%s permissions = %04o, want %04o", p, got, want)
		}
	}
	check(path, 0o600)
	check(filepath.Dir(path), 0o700)
}

func TestRemoteLifecycle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	mustRun := func(fn func() error) {
		t.Helper()
		if err := fn(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	mustRun(func() error { return remoteAddCmd.RunE(remoteAddCmd, []string{"staging", "https://staging.example.com"}) })
	mustRun(func() error { return remoteUseCmd.RunE(remoteUseCmd, []string{"staging"}) })

	cfg, err := loadRemotesConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Active != "staging" {
		t.Errorf("Active = %q, want %q", cfg.Active, "staging")
	}
	if cfg.Remotes["staging"].URL != "https://staging.example.com" {
		t.Errorf("staging remote = %+v", cfg.Remotes["staging"])
	}

	mustRun(func() error { return remoteRemoveCmd.RunE(remoteRemoveCmd, []string{"staging"}) })
	cfg, err = loadRemotesConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Active != "" || len(cfg.Remotes) != 0 {
		t.Errorf("expected empty config after remove, got %+v", cfg)
	}

	if err := remoteRemoveCmd.RunE(remoteRemoveCmd, []string{"missing"}); err == nil {
		t.Error("removing a missing remote should fail")
	}
	if err := remoteUseCmd.RunE(remoteUseCmd, []string{"missing"}); err == nil {
		t.Error("using a missing remote should fail")
	}
}
