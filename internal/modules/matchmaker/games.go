package matchmaker

import "eloqueue/internal/domain"

// Games is the registry of ongoing rounds, keyed by the in-game context
// key. A context is removed only when its round completes.
type Games struct {
	contexts map[int64]*InGameContext
	keys     []int64
}

// NewGames creates an empty registry.
func NewGames() *Games {
	return &Games{contexts: make(map[int64]*InGameContext)}
}

// Len returns the number of ongoing rounds.
func (g *Games) Len() int { return len(g.contexts) }

// Get returns the context registered under the key.
func (g *Games) Get(key int64) (*InGameContext, bool) {
	ctx, ok := g.contexts[key]
	return ctx, ok
}

// Contexts returns the ongoing contexts in registration order.
func (g *Games) Contexts() []*InGameContext {
	out := make([]*InGameContext, 0, len(g.contexts))
	for _, key := range g.keys {
		if ctx, ok := g.contexts[key]; ok {
			out = append(out, ctx)
		}
	}
	return out
}

// ContextOfPlayer returns the ongoing context the player is part of, or
// nil.
func (g *Games) ContextOfPlayer(p *domain.Player) *InGameContext {
	for _, ctx := range g.Contexts() {
		if ctx.MatchOfPlayer(p) != nil {
			return ctx
		}
	}
	return nil
}

// Lookup resolves a polymorphic key to the ongoing context it designates,
// or nil.
func (g *Games) Lookup(key domain.LookupKey) *InGameContext {
	switch key.Kind() {
	case domain.LookupByPlayer:
		return g.ContextOfPlayer(key.Player())
	case domain.LookupByTeam:
		team := key.Team()
		if !team.Valid() {
			return nil
		}
		c1 := g.ContextOfPlayer(team.PlayerOne)
		c2 := g.ContextOfPlayer(team.PlayerTwo)
		if c1 != nil && c1 == c2 {
			return c1
		}
		return nil
	case domain.LookupByMatch:
		match := key.Match()
		if !match.Valid() {
			return nil
		}
		if ctx := g.Lookup(domain.ByTeam(match.TeamOne.Team)); ctx != nil {
			return ctx
		}
		return g.Lookup(domain.ByTeam(match.TeamTwo.Team))
	case domain.LookupByIndex:
		ctx, _ := g.Get(int64(key.Index()))
		return ctx
	}
	return nil
}

// PushGame registers a new ongoing context. The context key must be free.
func (g *Games) PushGame(ctx *InGameContext) error {
	if _, taken := g.contexts[ctx.Key()]; taken {
		return &GameAlreadyExistError{Key: ctx.Key()}
	}
	g.contexts[ctx.Key()] = ctx
	g.keys = append(g.keys, ctx.Key())
	return nil
}

// Remove drops the context registered under the key.
func (g *Games) Remove(key int64) {
	delete(g.contexts, key)
	for i, k := range g.keys {
		if k == key {
			g.keys = append(g.keys[:i:i], g.keys[i+1:]...)
			return
		}
	}
}

// Clear drops every ongoing context.
func (g *Games) Clear() {
	g.contexts = make(map[int64]*InGameContext)
	g.keys = nil
}

// AddResult routes a reported match to the ongoing context that owns it and
// returns that context's key.
func (g *Games) AddResult(result *domain.Match) (int64, error) {
	ctx := g.Lookup(domain.ByMatch(result))
	if ctx == nil {
		return 0, &MissingContextError{Result: result}
	}
	if err := ctx.AddResult(result); err != nil {
		return 0, err
	}
	return ctx.Key(), nil
}
