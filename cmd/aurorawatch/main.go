package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/aurorawatch/internal/aurorawatch"
	"github.com/lox/aurorawatch/internal/imagegen"
	"github.com/lox/aurorawatch/internal/metrics"
	"github.com/lox/aurorawatch/internal/report"
)

type Globals struct {
	EnvFile     kongdotenv.ENVFileConfig `kong:"optional,name=env-file,help='Path to .env file'"`
	Format      string                   `kong:"enum='text,json',default='text',help='Output format (text, json)'"`
	Debug       bool                     `kong:"help='Log the decoded record and timings'"`
	MetricsFile string                   `kong:"name=metrics-file,type=path,help='Write Prometheus textfile metrics here after the fetch'"`
}

type CLI struct {
	Globals

	Status       StatusCmd       `kong:"cmd,default='1',help='Fetch the current site status (API 0.2.5)'"`
	Legacy       LegacyCmd       `kong:"cmd,help='Fetch the legacy status document (API 0.1)'"`
	Descriptions DescriptionsCmd `kong:"cmd,help='Fetch the alert level descriptions'"`
}

type StatusCmd struct {
	URL   string `kong:"name=url,env=AURORAWATCH_STATUS_URL,help='current_status document URL'"`
	Badge string `kong:"type=path,help='Also render a PNG status badge to this path'"`
}

func (c *StatusCmd) Run(ctx context.Context, g *Globals, client *aurorawatch.Client) error {
	url := c.URL
	if url == "" {
		url = aurorawatch.CurrentStatusURL
	}
	doc, err := fetch(ctx, g, client, url, aurorawatch.SchemaCurrent)
	if err != nil {
		return err
	}
	status := doc.(*aurorawatch.CurrentStatus)

	if c.Badge != "" {
		badge := imagegen.BadgeData{
			Level:  string(status.Level()),
			Color:  status.Level().Color(),
			Footer: status.SiteStatus.SiteID,
		}
		if err := writeBadge(c.Badge, badge); err != nil {
			return err
		}
	}
	return report.Write(os.Stdout, g.Format, status)
}

type LegacyCmd struct {
	URL   string `kong:"name=url,env=AURORAWATCH_LEGACY_URL,help='aurorawatch 0.1 document URL'"`
	Badge string `kong:"type=path,help='Also render a PNG status badge to this path'"`
}

func (c *LegacyCmd) Run(ctx context.Context, g *Globals, client *aurorawatch.Client) error {
	url := c.URL
	if url == "" {
		url = aurorawatch.LegacyStatusURL
	}
	doc, err := fetch(ctx, g, client, url, aurorawatch.SchemaLegacy)
	if err != nil {
		return err
	}
	watch := doc.(*aurorawatch.AuroraWatch)

	if c.Badge != "" {
		state := watch.Current.State
		badge := imagegen.BadgeData{
			Level:    string(state.Name),
			Color:    state.Color,
			Headline: state.Description,
			Footer:   watch.Station,
		}
		if err := writeBadge(c.Badge, badge); err != nil {
			return err
		}
	}
	return report.Write(os.Stdout, g.Format, watch)
}

type DescriptionsCmd struct {
	URL string `kong:"name=url,env=AURORAWATCH_DESCRIPTIONS_URL,help='status_list document URL'"`
}

func (c *DescriptionsCmd) Run(ctx context.Context, g *Globals, client *aurorawatch.Client) error {
	url := c.URL
	if url == "" {
		url = aurorawatch.DescriptionsURL
	}
	doc, err := fetch(ctx, g, client, url, aurorawatch.SchemaDescriptions)
	if err != nil {
		return err
	}
	return report.Write(os.Stdout, g.Format, doc)
}

func fetch(ctx context.Context, g *Globals, client *aurorawatch.Client, url string, schema aurorawatch.Schema) (aurorawatch.Document, error) {
	if g.Debug {
		log.Printf("fetching %s from %s", schema, url)
	}
	start := time.Now()
	doc, err := client.Fetch(ctx, url, schema)

	if g.MetricsFile != "" {
		if merr := metrics.WriteTextfile(g.MetricsFile); merr != nil {
			log.Printf("Warning: %v", merr)
		}
	}
	if err != nil {
		if g.Debug {
			log.Printf("fetch %s failed after %s (%s): %v", schema, time.Since(start).Round(time.Millisecond), aurorawatch.KindOf(err), err)
		}
		return nil, err
	}

	if g.Debug {
		log.Printf("fetched %s in %s: %+v", schema, time.Since(start).Round(time.Millisecond), doc)
	}
	return doc, nil
}

func writeBadge(path string, data imagegen.BadgeData) error {
	png, err := imagegen.GenerateBadge(data)
	if err != nil {
		return fmt.Errorf("render badge: %w", err)
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write badge: %w", err)
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("aurorawatch"),
		kong.Description("Fetch the AuroraWatch UK geomagnetic activity status."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run(&cli.Globals, aurorawatch.NewClient())
	cancel()
	kctx.FatalIfErrorf(err)
}
