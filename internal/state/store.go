package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// State is an explicit snapshot of the strategy's mutable fields. Nothing
// writes it implicitly; persistence is always caller-driven.
type State struct {
	Day             int     `json:"day"`
	Date            string  `json:"date"`
	InitialBalance  float64 `json:"initial_balance"`
	PeakPnL         float64 `json:"peak_pnl"`
	LastTradeMinute int     `json:"last_trade_minute"`
	TradesToday     int     `json:"trades_today"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return State{}, errors.New("empty state path")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, err
	}
	if len(data) == 0 {
		return State{}, nil
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (s *Store) Save(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return errors.New("empty state path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return errors.New("empty state path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte{}, 0o644)
}
