package session

import (
	"go.uber.org/zap"

	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/normalize"
)

// LabelPrefix starts the accessible label of every card.
const LabelPrefix = "Reference part: "

// Session is the full state of one attempt at an exercise. Building a Session
// seeds it; a reset is done by discarding it and building a new one.
type Session struct {
	cards     *CardSet
	reference []string
	feedback  *Feedback
	selection *Selection
	log       *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds a session from seed. The initial order is used as given.
func New(seed model.Seed, opts ...Option) (*Session, error) {
	if err := ValidateSeed(seed); err != nil {
		return nil, err
	}
	cards, err := NewCardSet(seed.InitialOrder)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cards:     cards,
		reference: append([]string(nil), seed.CorrectOrder...),
		feedback:  &Feedback{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.selection = newSelection(cards, s.feedback, s.log)
	return s, nil
}

// Activate routes a user activation of card id through the selection protocol.
func (s *Session) Activate(id model.CardID) Outcome {
	return s.selection.Activate(id)
}

// ActivateAt activates the card displayed at pos.
func (s *Session) ActivateAt(pos int) Outcome {
	c, ok := s.cards.At(pos)
	if !ok {
		return Ignored
	}
	return s.Activate(c.ID)
}

// Evaluate compares the current arrangement with the reference order without
// presenting anything.
func (s *Session) Evaluate() (Result, error) {
	return Evaluate(s.cards.Cards(), s.reference)
}

// Check evaluates the arrangement and presents the verdicts, entering
// feedback mode. If evaluation fails nothing is presented. Checking again
// while feedback is showing re-presents the same verdicts.
func (s *Session) Check() (Result, error) {
	res, err := s.Evaluate()
	if err != nil {
		s.log.Warn("check refused", zap.Error(err))
		return Result{}, err
	}
	s.feedback.Apply(res)
	s.log.Debug("answer checked",
		zap.Bool("all_match", res.AllMatch),
		zap.Ints("mismatches", res.Mismatches()))
	return res, nil
}

// FeedbackMode reports whether the arrangement has been checked.
func (s *Session) FeedbackMode() bool { return s.feedback.Active() }

// Holding returns the currently held card, if any.
func (s *Session) Holding() (model.CardID, bool) { return s.selection.Holding() }

// Cards returns the cards in display order.
func (s *Session) Cards() []model.Card { return s.cards.Cards() }

// Len returns the number of cards.
func (s *Session) Len() int { return s.cards.Len() }

// CardView is the presentation state of one card.
type CardView struct {
	ID        model.CardID `json:"id"`
	Position  int          `json:"position"`
	Content   string       `json:"content"`
	Text      string       `json:"text"`
	Label     string       `json:"label"`
	Selected  bool         `json:"selected"`
	Focusable bool         `json:"focusable"`
	Marker    model.Marker `json:"marker,omitempty"`
}

// View is everything a presentation layer needs to render the session.
type View struct {
	Cards        []CardView   `json:"cards"`
	Holding      model.CardID `json:"holding,omitempty"`
	FeedbackMode bool         `json:"feedback_mode"`
	AllMatch     bool         `json:"all_match"`
	Message      string       `json:"message,omitempty"`
}

// View renders the current state.
func (s *Session) View() View {
	held, holding := s.selection.Holding()
	v := View{
		Cards:        make([]CardView, s.cards.Len()),
		FeedbackMode: s.feedback.Active(),
		AllMatch:     s.feedback.AllMatch(),
		Message:      s.feedback.Message(),
	}
	if holding {
		v.Holding = held
	}
	for i, c := range s.cards.Cards() {
		text := normalize.Text(c.Content)
		v.Cards[i] = CardView{
			ID:        c.ID,
			Position:  c.Position,
			Content:   c.Content,
			Text:      text,
			Label:     LabelPrefix + text,
			Selected:  holding && c.ID == held,
			Focusable: s.feedback.Focusable(),
			Marker:    s.feedback.Marker(i),
		}
	}
	return v
}
