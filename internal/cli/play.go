package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/loader"
	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/session"
	"github.com/katrinawoods/rsc2/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an exercise in the terminal",
		Long: "Play a stored exercise (--id or --key) or a seed file (--file). " +
			"Cards start shuffled. Pick a card, then pick another to swap them; check when done.",
		Run: runPlay,
	}

	addExerciseFlags(cmd)
	cmd.Flags().String("file", "", "Seed file to play instead of a stored exercise")
	cmd.Flags().Bool("plain", false, "Line-oriented prompt instead of the full-screen UI")
	cmd.Flags().Uint64("seed", 0, "Shuffle seed (default: $REORDER_SHUFFLE_SEED, 0 = random)")
	cmd.Flags().Bool("no-shuffle", false, "Keep the stored initial order")
	cmd.MarkFlagsOneRequired("id", "key", "file")

	RootCmd.AddCommand(cmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	plain, _ := cmd.Flags().GetBool("plain")

	title, seed, err := loadSeed(cmd)
	if err != nil {
		exitErr("load", err)
	}

	reseed := sessionFactory(seed, presentation(cmd))
	sess, err := reseed()
	if err != nil {
		exitErr("start session", err)
	}

	if plain {
		if err := runREPL(cmd.InOrStdin(), cmd.OutOrStdout(), title, sess, reseed); err != nil {
			exitErr("play", err)
		}
		return
	}

	if _, err := tui.Run(cmd.Context(), tui.New(title, sess, reseed), os.Stdin, cmd.OutOrStdout()); err != nil {
		exitErr("play", err)
	}
}

// loadSeed reads the seed named by --file, or the stored exercise named by
// --id or --ns/--key.
func loadSeed(cmd *cobra.Command) (string, model.Seed, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		doc, err := loader.ReadFile(file)
		if err != nil {
			return "", model.Seed{}, err
		}
		return doc.Title, doc.Seed, nil
	}

	s, err := openStore()
	if err != nil {
		return "", model.Seed{}, err
	}
	defer s.Close()

	ex, err := s.Get(cmd.Context(), exerciseParams(cmd))
	if err != nil {
		return "", model.Seed{}, err
	}
	title := ex.Title
	if title == "" {
		title = ex.NS + "/" + ex.Key
	}
	return title, ex.Seed(), nil
}

// presentation returns how a seed is arranged before each attempt.
func presentation(cmd *cobra.Command) func(model.Seed) model.Seed {
	if noShuffle, _ := cmd.Flags().GetBool("no-shuffle"); noShuffle {
		return func(s model.Seed) model.Seed { return s }
	}
	seed := cfg.ShuffleSeed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	r := loader.NewRand(seed)
	return func(s model.Seed) model.Seed { return loader.Presentation(s, r) }
}

// sessionFactory builds a fresh session from seed on every call. It serves
// both the first attempt and every reset.
func sessionFactory(seed model.Seed, present func(model.Seed) model.Seed) tui.Reseed {
	return func() (*session.Session, error) {
		return session.New(present(seed), session.WithLogger(logger.Named("session")))
	}
}

const replHelp = `commands:
  show          list the cards
  pick <n>      activate the card at position n
  id <card-id>  activate a card by id
  check         compare with the answer key
  reset         start over with a fresh shuffle
  quit          leave`

// runREPL drives sess with one command per input line until quit or EOF.
func runREPL(in io.Reader, out io.Writer, title string, sess *session.Session, reseed tui.Reseed) error {
	if title != "" {
		fmt.Fprintln(out, title)
	}
	printView(out, sess.View())
	fmt.Fprintln(out, replHelp)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd, arg := fields[0], strings.Join(fields[1:], " "); cmd {
		case "quit", "q", "exit":
			return nil
		case "help", "h", "?":
			fmt.Fprintln(out, replHelp)
		case "show", "ls":
			printView(out, sess.View())
		case "pick", "p":
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 || n > sess.Len() {
				fmt.Fprintf(out, "position must be 1-%d\n", sess.Len())
				continue
			}
			reportOutcome(out, sess, sess.ActivateAt(n-1))
		case "id":
			reportOutcome(out, sess, sess.Activate(model.CardID(arg)))
		case "check", "c":
			if _, err := sess.Check(); err != nil {
				fmt.Fprintf(out, "cannot check: %v\n", err)
				continue
			}
			printView(out, sess.View())
		case "reset", "r":
			next, err := reseed()
			if err != nil {
				fmt.Fprintf(out, "cannot reset: %v\n", err)
				continue
			}
			sess = next
			logger.Debug("session reset")
			printView(out, sess.View())
		default:
			fmt.Fprintf(out, "unknown command %q (try help)\n", cmd)
		}
	}
}

func reportOutcome(out io.Writer, sess *session.Session, o session.Outcome) {
	switch o {
	case session.Ignored:
		if sess.FeedbackMode() {
			fmt.Fprintln(out, "checked; reset to try again")
		} else {
			fmt.Fprintln(out, "no such card")
		}
		return
	case session.Picked:
		fmt.Fprintln(out, "picked; choose a card to swap with")
		return
	}
	printView(out, sess.View())
}

func printView(w io.Writer, v session.View) {
	for i, c := range v.Cards {
		mark := " "
		if c.Selected {
			mark = "*"
		}
		line := fmt.Sprintf("%s %2d. %s", mark, i+1, c.Text)
		switch c.Marker {
		case model.MarkerMatch:
			line += "  [ok]"
		case model.MarkerMismatch:
			line += "  [wrong]"
		}
		fmt.Fprintln(w, line)
	}
	if v.Message != "" {
		fmt.Fprintln(w, v.Message)
	}
}
