// Package preferences keeps the display theme and interface language.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/storage"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Language string

const (
	LanguageEN Language = "en"
	LanguageAR Language = "ar"
)

const (
	DefaultTheme    = ThemeDark
	DefaultLanguage = LanguageEN
)

var ErrUnknownLanguage = errors.New("unknown language")

func ParseLanguage(v string) (Language, error) {
	switch l := Language(v); l {
	case LanguageEN, LanguageAR:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, v)
}

type Snapshot struct {
	Theme     Theme    `json:"theme"`
	Language  Language `json:"language"`
	RTL       bool     `json:"rtl"`
	Direction string   `json:"direction"`
}

type Store struct {
	mu       sync.Mutex
	theme    Theme
	language Language
	kv       storage.KV
}

func New(ctx context.Context, kv storage.KV) *Store {
	s := &Store{kv: kv, theme: DefaultTheme, language: DefaultLanguage}

	l := logging.FromContext(ctx).With("store", "preferences")
	if v, ok, err := kv.Get(ctx, storage.KeyTheme); err != nil {
		l.Error("preferences_load_error", "key", storage.KeyTheme, "error", err)
	} else if ok {
		switch t := Theme(v); t {
		case ThemeLight, ThemeDark:
			s.theme = t
		default:
			l.Warn("preferences_unknown_theme", "value", v)
		}
	}
	if v, ok, err := kv.Get(ctx, storage.KeyLanguage); err != nil {
		l.Error("preferences_load_error", "key", storage.KeyLanguage, "error", err)
	} else if ok {
		if lang, err := ParseLanguage(v); err == nil {
			s.language = lang
		} else {
			l.Warn("preferences_unknown_language", "value", v)
		}
	}
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	rtl := s.language == LanguageAR
	dir := "ltr"
	if rtl {
		dir = "rtl"
	}
	return Snapshot{Theme: s.theme, Language: s.language, RTL: rtl, Direction: dir}
}

func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) Language() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Store) IsRTL() bool {
	return s.Language() == LanguageAR
}

func (s *Store) ToggleTheme(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	s.save(ctx, storage.KeyTheme, string(s.theme))
	return s.snapshotLocked()
}

func (s *Store) SetLanguage(ctx context.Context, lang Language) (Snapshot, error) {
	if _, err := ParseLanguage(string(lang)); err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	s.save(ctx, storage.KeyLanguage, string(lang))
	return s.snapshotLocked(), nil
}

func (s *Store) save(ctx context.Context, key, value string) {
	if err := s.kv.Set(context.WithoutCancel(ctx), key, value); err != nil {
		logging.FromContext(ctx).Error("preferences_persist_error", "key", key, "error", err)
	}
}
