package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check an arrangement without playing",
		Long: "Evaluate an arrangement of an exercise's cards against its answer key. " +
			"--order lists card IDs in the proposed order; without it the stored order is checked.",
		Run: runCheck,
	}

	addExerciseFlags(cmd)
	cmd.Flags().String("file", "", "Seed file instead of a stored exercise")
	cmd.Flags().StringP("order", "o", "", "Card IDs in proposed order (comma-separated)")
	cmd.Flags().Bool("strict", false, "Exit 1 unless every position matches")
	cmd.MarkFlagsOneRequired("id", "key", "file")

	RootCmd.AddCommand(cmd)
}

type checkOutput struct {
	Verdicts []model.Verdict `json:"verdicts"`
	AllMatch bool            `json:"all_match"`
	Message  string          `json:"message"`
	Cards    []string        `json:"cards"`
}

func runCheck(cmd *cobra.Command, args []string) {
	order, _ := cmd.Flags().GetString("order")
	strict, _ := cmd.Flags().GetBool("strict")

	_, seed, err := loadSeed(cmd)
	if err != nil {
		exitErr("load", err)
	}

	if order != "" {
		seed, err = arrange(seed, splitIDs(order))
		if err != nil {
			exitErr("order", err)
		}
	}

	sess, err := session.New(seed, session.WithLogger(logger.Named("session")))
	if err != nil {
		exitErr("start session", err)
	}
	res, err := sess.Check()
	if err != nil {
		exitErr("check", err)
	}

	v := sess.View()
	out := checkOutput{Verdicts: res.Verdicts, AllMatch: res.AllMatch, Message: v.Message}
	for _, c := range v.Cards {
		out.Cards = append(out.Cards, c.Text)
	}

	if formatFlag == "text" {
		printView(cmd.OutOrStdout(), v)
	} else {
		printJSON(cmd.OutOrStdout(), out)
	}

	if strict && !res.AllMatch {
		_ = logger.Sync()
		os.Exit(1)
	}
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// arrange returns seed with its cards in the order given by ids. ids must
// name every card exactly once.
func arrange(seed model.Seed, ids []string) (model.Seed, error) {
	if len(ids) != len(seed.InitialOrder) {
		return model.Seed{}, fmt.Errorf("got %d card ids, exercise has %d cards", len(ids), len(seed.InitialOrder))
	}
	byID := make(map[model.CardID]model.SeedCard, len(seed.InitialOrder))
	for _, c := range seed.InitialOrder {
		byID[c.ID] = c
	}

	out := model.Seed{CorrectOrder: append([]string(nil), seed.CorrectOrder...)}
	for _, id := range ids {
		c, ok := byID[model.CardID(id)]
		if !ok {
			return model.Seed{}, fmt.Errorf("unknown or repeated card id %q", id)
		}
		delete(byID, c.ID)
		out.InitialOrder = append(out.InitialOrder, c)
	}
	return out, nil
}
