package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"logreport-backend/internal/report"
	"logreport-backend/internal/store"
	"logreport-backend/internal/util"
)

func main() {
	files := pflag.StringSlice("file", nil, "log file(s) to process")
	reportKind := pflag.String("report", "", "report type to generate (e.g. average)")
	date := pflag.String("date", "", "filter logs by date (YYYY-MM-DD format)")
	pflag.Parse()

	// Skip diagnostics go to stderr; the report itself is the only stdout output.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(*files) == 0 || *reportKind == "" {
		fmt.Fprintln(os.Stderr, "Error: --file and --report are required")
		pflag.Usage()
		os.Exit(1)
	}

	if *date != "" {
		if _, err := util.ParseDate(*date); err != nil {
			fmt.Fprintln(os.Stderr, "Error: Invalid date format. Use YYYY-MM-DD")
			os.Exit(1)
		}
	}

	logStore := store.New()
	if err := logStore.Load(*files, *date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if logStore.Len() == 0 {
		fmt.Fprintln(os.Stderr, "No valid log entries found.")
		os.Exit(1)
	}

	renderer := report.NewRenderer(logStore)
	text, err := renderer.GenerateReport(*reportKind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unknown report type '%s'\n", *reportKind)
		os.Exit(1)
	}

	fmt.Println(text)
}
