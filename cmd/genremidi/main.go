// Command genremidi renders a genre composition to a Standard MIDI File.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/config"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/llm"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/midifile"
	"github.com/joho/godotenv"
)

const (
	defaultBars = 32
	rule        = "============================================================"
)

type options struct {
	genre    string
	output   string
	bars     int
	seed     int64
	seeded   bool
	list     bool
	info     string
	search   string
	suggest  bool
	model    string
	provider string
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("genremidi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.genre, "genre", "", "genre id to generate")
	fs.StringVar(&opts.output, "o", "", "output file (default <genre>.mid)")
	fs.IntVar(&opts.bars, "bars", defaultBars, "number of bars")
	seed := fs.Int64("seed", 0, "random seed for reproducible output")
	fs.BoolVar(&opts.list, "list", false, "list all genres")
	fs.StringVar(&opts.info, "info", "", "show the parameters of a genre")
	fs.StringVar(&opts.search, "search", "", "search genres by keyword")
	fs.BoolVar(&opts.suggest, "suggest", false, "blend LLM note suggestions into melody and bass")
	fs.StringVar(&opts.model, "model", "", "suggestion model (default SUGGESTION_MODEL)")
	fs.StringVar(&opts.provider, "provider", "", "suggestion provider: openai or gemini")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	// genremidi trap -bars 8 is accepted as well as -genre trap
	if fs.NArg() > 0 {
		if opts.genre == "" {
			opts.genre = fs.Arg(0)
		}
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seeded = true
		}
	})
	opts.seed = *seed
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	switch {
	case opts.list:
		printGenreList(stdout)
		return 0
	case opts.info != "":
		return printGenreInfo(stdout, stderr, opts.info)
	case opts.search != "":
		printSearch(stdout, opts.search)
		return 0
	case opts.genre == "":
		printUsage(stdout)
		return 0
	}

	if err := generate(ctx, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var unknown *composer.UnknownGenreError
		if errors.As(err, &unknown) {
			fmt.Fprintf(stderr, "Run with -list to see the available genres\n")
		}
		return 1
	}
	return 0
}

func generate(ctx context.Context, opts *options, stdout io.Writer) error {
	if opts.bars < 1 {
		return fmt.Errorf("bars must be positive, got %d", opts.bars)
	}

	var seed *int64
	if opts.seeded {
		seed = &opts.seed
	}
	session, err := composer.NewSession(opts.genre, seed)
	if err != nil {
		return err
	}

	if opts.suggest {
		cfg := config.Load()
		model, providerName := opts.model, opts.provider
		if model == "" {
			model = cfg.SuggestionModel
		}
		if providerName == "" {
			providerName = cfg.SuggestionProvider
		}
		provider, err := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey).GetProvider(ctx, model, providerName)
		if err != nil {
			return fmt.Errorf("suggestions unavailable: %w", err)
		}
		session.AttachSuggestionSource(llm.ForGenre(provider, session.Genre()))
	}

	g := session.Genre()
	output := opts.output
	if output == "" {
		output = g.ID + ".mid"
	}

	fmt.Fprintf(stdout, "%s\nGenerating: %s\nCategory: %s\nDescription: %s\n%s\n",
		rule, g.Name, g.Category, g.Description, rule)
	ts := session.TimeSignature()
	fmt.Fprintf(stdout, "Tempo: %d BPM\nTime Signature: %d/%d\nBars: %d\n", session.Tempo(), ts.Beats, ts.Unit, opts.bars)

	comp, err := session.GenerateAll(ctx, opts.bars)
	if err != nil {
		return err
	}
	if err := midifile.WriteFile(output, comp); err != nil {
		return err
	}

	seconds := comp.DurationSeconds()
	fmt.Fprintf(stdout, "%s\nGenerated: %s\n  Duration: %.1f minutes (%.0f seconds)\n", rule, output, seconds/60, seconds)
	fmt.Fprintf(stdout, "  Tracks: Melody, Chords, Bass, Arpeggio, Drums\n")
	if opts.suggest {
		fmt.Fprintf(stdout, "  Suggestions discarded: %d\n", comp.SuggestionFailures)
	}
	fmt.Fprintln(stdout, rule)
	return nil
}

func printGenreList(w io.Writer) {
	fmt.Fprintf(w, "%s\nAVAILABLE GENRES (%d total)\n%s\n", rule, genres.Count(), rule)
	byCategory := genres.ByCategory()
	for _, category := range genres.Categories() {
		ids := byCategory[category]
		fmt.Fprintf(w, "\n%s (%d genres)\n%s\n", strings.ToUpper(category), len(ids), strings.Repeat("-", 40))
		for _, id := range ids {
			g, _ := genres.Resolve(id)
			fmt.Fprintf(w, "  %s: %s\n", id, g.Name)
		}
	}
}

func printGenreInfo(stdout, stderr io.Writer, id string) int {
	g, err := genres.Resolve(id)
	if err != nil {
		fmt.Fprintf(stderr, "Genre '%s' not found.\n", id)
		return 1
	}

	sigs := make([]string, len(g.TimeSignatures))
	for i, ts := range g.TimeSignatures {
		sigs[i] = fmt.Sprintf("%d/%d", ts.Beats, ts.Unit)
	}
	scales := make([]string, len(g.Scales))
	for i, s := range g.Scales {
		scales[i] = string(s)
	}

	fmt.Fprintf(stdout, "%s\nGenre: %s\nCategory: %s\n%s\n", rule, g.Name, g.Category, rule)
	fmt.Fprintf(stdout, "Description: %s\n", g.Description)
	fmt.Fprintf(stdout, "Tempo: %d-%d BPM\n", g.TempoRange[0], g.TempoRange[1])
	fmt.Fprintf(stdout, "Time Signatures: %s\n", strings.Join(sigs, ", "))
	fmt.Fprintf(stdout, "Scales: %s\n", strings.Join(scales, ", "))
	fmt.Fprintf(stdout, "Swing: %.2f\n", g.Swing)
	fmt.Fprintf(stdout, "Velocity Range: %d-%d\n", g.VelocityRange[0], g.VelocityRange[1])
	fmt.Fprintf(stdout, "Note Density: %.2f\n", g.NoteDensity)
	fmt.Fprintf(stdout, "Syncopation: %.2f\n", g.Syncopation)
	fmt.Fprintf(stdout, "Chord Complexity: %.2f\n", g.ChordComplexity)
	fmt.Fprintf(stdout, "Instruments: %s\n", strings.Join(g.Instruments, ", "))
	fmt.Fprintf(stdout, "Drum Pattern: %s\n", g.DrumPattern)
	fmt.Fprintf(stdout, "Bass Style: %s\n", g.BassStyle)
	return 0
}

func printSearch(w io.Writer, term string) {
	fmt.Fprintf(w, "Search results for '%s':\n", term)
	ids := genres.Search(term)
	if len(ids) == 0 {
		fmt.Fprintln(w, "  no matches")
		return
	}
	for _, id := range ids {
		g, _ := genres.Resolve(id)
		fmt.Fprintf(w, "  %s: %s (%s)\n", id, g.Name, g.Category)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Genre MIDI composer\nTotal genres available: %d\n\n", genres.Count())
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  genremidi -genre <id> [-o out.mid] [-bars n] [-seed n] [-suggest]")
	fmt.Fprintln(w, "  genremidi -list")
	fmt.Fprintln(w, "  genremidi -info <id>")
	fmt.Fprintln(w, "  genremidi -search <term>")
}
