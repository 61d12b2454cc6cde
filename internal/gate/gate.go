package gate

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Token is the capability issued by a successful login. Mutating project
// operations require one; logout revokes it. Possession of the value is
// the capability, so tokens must only travel over trusted channels
// (in-process, or inside a signed session cookie).
type Token struct {
	value string
}

func (t Token) IsZero() bool {
	return t.value == ""
}

func (t Token) Value() string {
	return t.value
}

func TokenFrom(value string) Token {
	return Token{value: value}
}

// Gate is the single writer of the admin session state. All reads and
// writes of the persisted flag go through it; other components observe
// changes via Subscribe instead of polling the store themselves.
type Gate struct {
	secret string
	store  FlagStore
	log    *slog.Logger

	mu    sync.Mutex
	state State
	token Token
	subs  []chan State
}

func New(secret string, store FlagStore, log *slog.Logger) *Gate {
	return &Gate{
		secret: secret,
		store:  store,
		log:    log,
		state:  Unauthenticated,
	}
}

// Restore reads the persisted flag once at startup. A present flag starts
// the gate authenticated with a fresh token; tokens never survive a
// restart, only the flag does.
func (g *Gate) Restore(ctx context.Context) error {
	found, err := g.store.Get(ctx)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	g.mu.Lock()
	g.state = Authenticated
	g.token = newToken()
	g.mu.Unlock()

	g.log.Info("admin session restored from store")
	return nil
}

// Login trims both secrets and compares them exactly. On success the gate
// persists the flag, notifies subscribers and returns a fresh token. On
// failure it returns the zero token and false with no further detail.
func (g *Gate) Login(ctx context.Context, secret string) (Token, bool) {
	expected := strings.TrimSpace(g.secret)
	if expected == "" {
		g.log.Warn("admin login rejected: gate secret not configured")
		return Token{}, false
	}

	if strings.TrimSpace(secret) != expected {
		return Token{}, false
	}

	g.mu.Lock()
	g.state = Authenticated
	g.token = newToken()
	token := g.token
	subs := append([]chan State(nil), g.subs...)
	g.mu.Unlock()

	if err := g.store.Set(ctx); err != nil {
		// The in-memory session stands; only the reload survival is lost.
		g.log.Warn("admin session flag not persisted", slog.String("error", err.Error()))
	}

	notify(subs, Authenticated)
	return token, true
}

// Grant returns the live token for a caller that already proved itself
// through another configured credential (the admin API key). If the gate is
// closed it performs the same transition a successful login does, so there
// is always exactly one live token.
func (g *Gate) Grant(ctx context.Context) Token {
	g.mu.Lock()
	if g.state == Authenticated {
		token := g.token
		g.mu.Unlock()
		return token
	}
	g.state = Authenticated
	g.token = newToken()
	token := g.token
	subs := append([]chan State(nil), g.subs...)
	g.mu.Unlock()

	if err := g.store.Set(ctx); err != nil {
		g.log.Warn("admin session flag not persisted", slog.String("error", err.Error()))
	}

	notify(subs, Authenticated)
	return token
}

// Logout clears the state, the persisted flag and the current token.
func (g *Gate) Logout(ctx context.Context) {
	g.mu.Lock()
	g.state = Unauthenticated
	g.token = Token{}
	subs := append([]chan State(nil), g.subs...)
	g.mu.Unlock()

	if err := g.store.Clear(ctx); err != nil {
		g.log.Warn("admin session flag not cleared", slog.String("error", err.Error()))
	}

	notify(subs, Unauthenticated)
}

func (g *Gate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == Authenticated
}

// Valid reports whether tok is the currently issued capability.
func (g *Gate) Valid(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == Authenticated && !tok.IsZero() && tok.value == g.token.value
}

// Subscribe returns a channel receiving state transitions. Delivery is
// best effort: a subscriber that is not draining its channel misses events.
func (g *Gate) Subscribe() <-chan State {
	ch := make(chan State, 4)
	g.mu.Lock()
	g.subs = append(g.subs, ch)
	g.mu.Unlock()
	return ch
}

func notify(subs []chan State, s State) {
	for _, ch := range subs {
		select {
		case ch <- s:
		default:
		}
	}
}

func newToken() Token {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Token{}
	}
	return Token{value: hex.EncodeToString(buf)}
}
