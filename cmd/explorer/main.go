// Explorer is a terminal companion for the admin backend: it fetches a
// collection view, normalizes the raw documents and renders the projected
// table plus its summary stats. With -refresh it keeps re-fetching; a
// transient backend failure keeps the last good table on screen.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mygymhq/adminboard/internal/explorer/client"
	"github.com/mygymhq/adminboard/internal/explorer/document"
	"github.com/mygymhq/adminboard/internal/explorer/view"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func viewConfigs() map[string]view.Config {
	return map[string]view.Config{
		"activities":    view.Activities(),
		"dailysteps":    view.DailySteps(),
		"challenges":    view.Challenges(),
		"exercises":     view.Exercises(),
		"conversations": view.Conversations(),
	}
}

func main() {
	addr := flag.String("addr", "http://localhost:9001", "admin backend address")
	viewName := flag.String("view", "activities", "view to render")
	search := flag.String("search", "", "exercises view: name search term")
	level := flag.String("level", "all", "exercises view: level filter [Beginner | Intermediate | Advanced | Other | all]")
	refresh := flag.Duration("refresh", 0, "re-fetch interval, 0 renders once")
	logLevel := flag.String("loglevel", "warn", "log level")
	flag.Parse()

	log.SetLevel(parseLogLevel(*logLevel))

	configs := viewConfigs()
	cfg, ok := configs[*viewName]
	if !ok {
		names := make([]string, 0, len(configs))
		for name := range configs {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "unknown view %q, have: %s\n", *viewName, strings.Join(names, ", "))
		os.Exit(1)
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   15 * time.Second,
	}
	loader := view.NewLoader(client.New(*addr, httpClient))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-chOsInterrupt
		cancel()
	}()

	state := loader.Load(ctx, cfg, nil)
	applyExerciseFilter(*viewName, state, cfg, *search, *level)
	render(*viewName, state)

	if *refresh <= 0 {
		if state.Err != nil {
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(*refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state = loader.Load(ctx, cfg, state)
			applyExerciseFilter(*viewName, state, cfg, *search, *level)
			render(*viewName, state)
		}
	}
}

// parseLogLevel falls back to warn on garbage input, a CLI should not
// refuse to run over a typo in -loglevel.
func parseLogLevel(raw string) log.Level {
	parsed, err := log.ParseLevel(raw)
	if err != nil {
		return log.WarnLevel
	}
	return parsed
}

// applyExerciseFilter narrows the exercises view in place with the name
// search and level filter, re-projecting table and stats over what's left.
func applyExerciseFilter(name string, state *view.State, cfg view.Config, search, level string) {
	if name != "exercises" || state.Err != nil {
		return
	}
	if search == "" && (level == "" || level == "all") {
		return
	}

	filtered := view.FilterExercises(state.Records, search, level)
	state.Records = filtered
	state.Table = view.Project(filtered, cfg.Columns)
	state.Summary = view.Aggregate(filtered, cfg.Stats)
	state.RowCount = len(filtered)
	state.Empty = len(filtered) == 0
}

func render(name string, state *view.State) {
	fmt.Printf("\n== %s @ %s ==\n", name, state.LoadedAt.Format("15:04:05"))
	if state.Err != nil {
		fmt.Printf("!! fetch failed: %s (showing last good data)\n", state.Err)
	}
	if state.Empty {
		fmt.Println("no documents")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	labels := make([]string, 0, len(state.Table.Columns))
	for _, col := range state.Table.Columns {
		labels = append(labels, col.Label)
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, row := range state.Table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		log.Errorf("flush table: %s", err)
	}

	fmt.Printf("rows: %d of ~%d total\n", state.RowCount, state.Total)

	statNames := make([]string, 0, len(state.Summary))
	for statName := range state.Summary {
		statNames = append(statNames, statName)
	}
	sort.Strings(statNames)
	for _, statName := range statNames {
		fmt.Printf("  %s: %s\n", statName, strconv.FormatFloat(state.Summary[statName], 'f', -1, 64))
	}

	if name == "dailysteps" {
		renderStepsBreakdown(state.Records)
	}
}

func renderStepsBreakdown(records []*document.Record) {
	if top := view.TopSteppers(records, 5); len(top) > 0 {
		fmt.Println("top steppers:")
		for i, stepper := range top {
			fmt.Printf("  %d. %s  %s\n", i+1, stepper.UserID, strconv.FormatFloat(stepper.Steps, 'f', -1, 64))
		}
	}
	if days := view.StepsPerDay(records); len(days) > 0 {
		fmt.Println("steps per day:")
		for _, day := range days {
			fmt.Printf("  %s  %s\n", day.Day.Format("02 Jan 2006"), strconv.FormatFloat(day.Steps, 'f', -1, 64))
		}
	}
}
