package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// tracer traces with key 'mdview.cli'.
func tracer() tracing.Trace {
	return tracing.Select("mdview.cli")
}

var traceKeys = []string{"mdview.cli", "mdview.bridge", "mdview.sidebar"}

// setupTracing routes every mdview tracer to the go log adapter at level.
func setupTracing(level string) error {
	lvl, name, err := parseTraceLevel(level)
	if err != nil {
		return err
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = name
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(lvl)
	}
	return nil
}

func parseTraceLevel(level string) (tracing.TraceLevel, string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return tracing.LevelDebug, "Debug", nil
	case "info":
		return tracing.LevelInfo, "Info", nil
	case "", "error":
		return tracing.LevelError, "Error", nil
	}
	return tracing.LevelError, "", fmt.Errorf("invalid trace level %q: expected Debug|Info|Error", level)
}
