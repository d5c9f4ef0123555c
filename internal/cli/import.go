package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/katrinawoods/rsc2/internal/fragment"
	"github.com/katrinawoods/rsc2/internal/loader"
	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import an exercise",
		Long: "Import an exercise from a seed file (JSON or YAML with initialOrder and correctOrder), " +
			"or with --text from a document whose paragraphs, in order, are the answer key. " +
			"With --restore, reads the JSON produced by export. Reads stdin when no file is given.",
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	cmd.Flags().StringP("ns", "n", "", "Namespace (default: default)")
	cmd.Flags().StringP("key", "k", "", "Key (default: file name)")
	cmd.Flags().StringP("title", "t", "", "Title")
	cmd.Flags().Bool("text", false, "Treat input as a document to split into cards")
	cmd.Flags().String("split", string(fragment.Paragraphs), "With --text: paragraphs or lines")
	cmd.Flags().Int("max-size", fragment.DefaultMaxSize, "With --text: longest card before splitting on lines")
	cmd.Flags().String("input-format", "", "Seed format when reading stdin: json or yaml")
	cmd.Flags().Bool("restore", false, "Input is an export; import every exercise in it")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	key, _ := cmd.Flags().GetString("key")
	title, _ := cmd.Flags().GetString("title")
	asText, _ := cmd.Flags().GetBool("text")
	split, _ := cmd.Flags().GetString("split")
	maxSize, _ := cmd.Flags().GetInt("max-size")
	inputFormat, _ := cmd.Flags().GetString("input-format")
	restore, _ := cmd.Flags().GetBool("restore")

	var data []byte
	var err error
	format := loader.Format(inputFormat)
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
		if format == "" {
			format = loader.FormatFromPath(args[0])
		}
		if key == "" {
			key = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		exitErr("read input", err)
	}
	if restore {
		restoreExport(cmd, data)
		return
	}
	if key == "" {
		exitErr("import", fmt.Errorf("--key is required when reading stdin"))
	}

	var seed model.Seed
	if asText {
		seed, err = seedFromDocument(string(data), fragment.Options{Mode: fragment.Mode(split), MaxSize: maxSize})
	} else {
		var doc *loader.Document
		doc, err = loader.Parse(data, format)
		if doc != nil {
			seed = doc.Seed
			if title == "" {
				title = doc.Title
			}
		}
	}
	if err != nil {
		exitErr("parse", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ex, err := s.Put(cmd.Context(), store.PutParams{NS: ns, Key: key, Title: title, Seed: seed})
	if err != nil {
		exitErr("import", err)
	}
	logger.Info("exercise stored", zap.String("id", ex.ID), zap.Int("cards", ex.Size))

	printJSON(cmd.OutOrStdout(), ex)
}

// seedFromDocument turns a document into a seed whose answer key is the
// document order. Card content is markup, so fragment text is escaped to
// render literally. Card IDs are assigned by the store.
func seedFromDocument(text string, opts fragment.Options) (model.Seed, error) {
	if opts.Mode != fragment.Paragraphs && opts.Mode != fragment.Lines {
		return model.Seed{}, fmt.Errorf("unknown split mode %q", opts.Mode)
	}
	frags := fragment.Split(text, opts)
	if len(frags) < 2 {
		return model.Seed{}, fmt.Errorf("document has %d fragments, need at least 2", len(frags))
	}
	var seed model.Seed
	for _, f := range frags {
		content := html.EscapeString(f.Text)
		seed.InitialOrder = append(seed.InitialOrder, model.SeedCard{Content: content})
		seed.CorrectOrder = append(seed.CorrectOrder, content)
	}
	return seed, nil
}

func restoreExport(cmd *cobra.Command, data []byte) {
	var exercises []model.Exercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), exercises)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d}`+"\n", imported)
}
