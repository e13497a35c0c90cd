// Package appstate holds the mutable state of one dashboard session.
//
// Presenters read and write the current selection through accessors and use
// Begin/IsLatest to drop responses that were superseded by a newer request.
package appstate

import (
	"context"
	"strings"
	"sync"

	"crypto_dashboard/internal/shared/timeframe"
)

// Kind separates request sequences so that, for example, an accuracy fetch
// does not invalidate an in-flight market fetch.
type Kind int

const (
	KindSymbols Kind = iota
	KindPrediction
	KindAccuracy
	KindMarket
	kindCount
)

// MarketMode is the sort direction of the market overview.
type MarketMode string

const (
	ModeGainers MarketMode = "gainers"
	ModeLosers  MarketMode = "losers"
)

// ParseMarketMode returns ModeLosers for "losers" and ModeGainers otherwise.
func ParseMarketMode(s string) MarketMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeLosers)) {
		return ModeLosers
	}
	return ModeGainers
}

// State is safe for concurrent use.
type State struct {
	mu       sync.Mutex
	symbol   string
	interval timeframe.Interval
	keyword  string
	mode     MarketMode
	visible  bool

	seq    [kindCount]uint64
	cancel [kindCount]context.CancelFunc
}

func New() *State {
	return &State{
		interval: timeframe.Default,
		mode:     ModeGainers,
		visible:  true,
	}
}

func (s *State) CurrentSymbol() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol
}

func (s *State) SetCurrentSymbol(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbol = symbol
}

func (s *State) Interval() timeframe.Interval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *State) SetInterval(iv timeframe.Interval) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = iv
}

// Keyword is the market overview search keyword.
func (s *State) Keyword() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyword
}

func (s *State) SetKeyword(k string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyword = k
}

func (s *State) MarketMode() MarketMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *State) SetMarketMode(m MarketMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// Visible reports whether the browser tab is in the foreground.
func (s *State) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *State) SetVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = v
}

// Begin は kind の新しいリクエストを開始し、直前のリクエストの context をキャンセルします。
// 戻り値の seq は応答の反映前に IsLatest で確認します。
func (s *State) Begin(ctx context.Context, kind Kind) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.cancel[kind]; c != nil {
		c()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.seq[kind]++
	s.cancel[kind] = cancel
	return ctx, s.seq[kind]
}

// IsLatest reports whether seq is still the newest request of kind.
func (s *State) IsLatest(kind Kind, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[kind] == seq
}

// Finish releases the context of seq if it is still the newest request.
func (s *State) Finish(kind Kind, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[kind] != seq {
		return
	}
	if c := s.cancel[kind]; c != nil {
		c()
		s.cancel[kind] = nil
	}
}

// CancelAll cancels every in-flight request. Used when the session closes.
func (s *State) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.cancel {
		if c != nil {
			c()
			s.cancel[i] = nil
		}
	}
}
