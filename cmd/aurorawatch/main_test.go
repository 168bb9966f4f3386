package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/lox/aurorawatch/internal/aurorawatch"
)

const currentStatusXML = `<?xml version='1.0' encoding='UTF-8' standalone='yes'?>
<!DOCTYPE current_status PUBLIC "-//AuroraWatch-API//DTD REST 0.2.5//EN" "http://aurorawatch-api.lancs.ac.uk/0.2.5/aurorawatch-api.dtd">
<current_status api_version="0.2.5">
    <updated><datetime>2024-10-11T20:15:31+0000</datetime></updated>
    <site_status project_id="project:AWN" site_id="site:AWN:SUM" site_url="http://aurorawatch-api.lancs.ac.uk/0.2.5/project/awn/sum.xml" status_id="amber"/>
</current_status>
`

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("aurorawatch"))
	if err != nil {
		t.Fatal(err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return &cli, kctx
}

func TestCLI_DefaultCommandIsStatus(t *testing.T) {
	cli, kctx := parse(t)
	if kctx.Command() != "status" {
		t.Errorf("command = %q, want status", kctx.Command())
	}
	if cli.Format != "text" {
		t.Errorf("format = %q, want text", cli.Format)
	}
}

func TestCLI_URLFromEnv(t *testing.T) {
	t.Setenv("AURORAWATCH_LEGACY_URL", "http://example.invalid/status.xml")

	cli, kctx := parse(t, "legacy")
	if kctx.Command() != "legacy" {
		t.Errorf("command = %q, want legacy", kctx.Command())
	}
	if cli.Legacy.URL != "http://example.invalid/status.xml" {
		t.Errorf("URL = %q", cli.Legacy.URL)
	}
}

func TestCLI_RejectsUnknownFormat(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("aurorawatch"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"--format=yaml"}); err == nil {
		t.Error("expected error for --format=yaml")
	}
}

func TestStatusCmd_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, currentStatusXML)
	}))
	defer srv.Close()

	dir := t.TempDir()
	badge := filepath.Join(dir, "badge.png")
	prom := filepath.Join(dir, "aurorawatch.prom")

	cmd := &StatusCmd{URL: srv.URL, Badge: badge}
	g := &Globals{Format: "json", MetricsFile: prom}
	if err := cmd.Run(context.Background(), g, aurorawatch.NewClient()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, path := range []string{badge, prom} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", filepath.Base(path), err)
		}
	}
}

func TestStatusCmd_RunConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	prom := filepath.Join(t.TempDir(), "aurorawatch.prom")
	cmd := &StatusCmd{URL: url}
	err := cmd.Run(context.Background(), &Globals{Format: "text", MetricsFile: prom}, aurorawatch.NewClient())
	if aurorawatch.KindOf(err) != aurorawatch.KindConnect {
		t.Fatalf("KindOf(%v) = %s, want connect_error", err, aurorawatch.KindOf(err))
	}
	if _, err := os.Stat(prom); err != nil {
		t.Errorf("metrics should be written on failure: %v", err)
	}
}
