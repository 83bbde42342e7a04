package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NivBraz/tagextractor/internal/app"
	"github.com/NivBraz/tagextractor/internal/config"
)

var (
	errNoDocument  = errors.New("pick a text file first (-file)")
	errNoStopWords = errors.New("pick a stop words file (-stopwords), or use -stopwords builtin for the provided English stop words")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}
}

// run executes one extraction. Every deferred cleanup runs before it returns.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tagextract", flag.ContinueOnError)
	configFlag := fs.String("config", config.DefaultPath, "Path to YAML configuration file")
	fileFlag := fs.String("file", "", "Text file or http(s) URL to extract tags from")
	stopFlag := fs.String("stopwords", "", "Stop words file, URL, or \"builtin\"")
	outFlag := fs.String("out", "", "Save tags to this file (.txt is appended if missing)")
	formatFlag := fs.String("format", "", "Output format: text or json")
	archiveFlag := fs.String("archive", "", "SQLite database to archive the tags in")
	showFlag := fs.Int64("show-archived", 0, "Print the archived report with this id and exit")
	verboseFlag := fs.Bool("verbose", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	overrideConfig(cfg, *fileFlag, *stopFlag, *outFlag, *formatFlag, *archiveFlag, *verboseFlag)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Logging.Verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	}

	if *showFlag == 0 {
		if cfg.Input.Document == "" {
			return errNoDocument
		}
		if cfg.Input.StopWords == "" {
			return errNoStopWords
		}
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	if *showFlag != 0 {
		report, err := application.ShowArchived(ctx, *showFlag)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, report)
		return nil
	}

	n, err := application.LoadStopWords(ctx, cfg.Input.StopWords)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d stop words from %s", n, cfg.Input.StopWords)

	application.SetDocument(cfg.Input.Document)
	log.Printf("Scanning file: %s", cfg.Input.Document)

	result, err := application.Extract(ctx)
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.FormatJSON {
		var output []byte
		if cfg.Output.PrettyPrint {
			output, err = json.MarshalIndent(result, "", "    ")
		} else {
			output, err = json.Marshal(result)
		}
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Fprintln(stdout, string(output))
	} else if application.CanSave() {
		fmt.Fprint(stdout, application.Report())
	}

	if !application.CanSave() {
		log.Println(app.NoTagsMessage)
		return nil
	}

	if cfg.Output.SavePath != "" {
		path, err := application.Save(cfg.Output.SavePath)
		if err != nil {
			return err
		}
		log.Printf("Tags saved to: %s", path)
	}

	if cfg.Archive.Path != "" {
		id, err := application.Archive(ctx)
		if err != nil {
			return fmt.Errorf("failed to archive tags: %w", err)
		}
		log.Printf("Tags archived in %s as report %d", cfg.Archive.Path, id)
	}

	return nil
}

// overrideConfig applies non-empty command line flags on top of the loaded
// configuration.
func overrideConfig(cfg *config.Config, file, stopWords, out, format, archive string, verbose bool) {
	if file != "" {
		cfg.Input.Document = file
	}
	if stopWords != "" {
		cfg.Input.StopWords = stopWords
	}
	if out != "" {
		cfg.Output.SavePath = out
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if archive != "" {
		cfg.Archive.Path = archive
	}
	if verbose {
		cfg.Logging.Verbose = true
	}
}
