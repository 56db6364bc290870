package domain

// LookupKey is the polymorphic key the queue context, the in-game context
// and the games registry accept: a player, a team, a match or a positional
// index. It is a small tagged variant; containers dispatch on Kind instead
// of on dynamic types.
type LookupKey struct {
	kind   LookupKind
	player *Player
	team   *Team
	match  *Match
	index  int
}

// LookupKind tags the variant held by a LookupKey.
type LookupKind int

const (
	LookupByPlayer LookupKind = iota + 1
	LookupByTeam
	LookupByMatch
	LookupByIndex
)

// ByPlayer builds a key that searches by player membership.
func ByPlayer(p *Player) LookupKey { return LookupKey{kind: LookupByPlayer, player: p} }

// ByTeam builds a key that compares teams by team_id.
func ByTeam(t *Team) LookupKey { return LookupKey{kind: LookupByTeam, team: t} }

// ByMatch builds a key that compares matches by match_id or by the teams
// they involve.
func ByMatch(m *Match) LookupKey { return LookupKey{kind: LookupByMatch, match: m} }

// ByIndex builds a positional key.
func ByIndex(i int) LookupKey { return LookupKey{kind: LookupByIndex, index: i} }

// Kind returns the variant tag.
func (k LookupKey) Kind() LookupKind { return k.kind }

// Player returns the player variant, or nil.
func (k LookupKey) Player() *Player { return k.player }

// Team returns the team variant, or nil.
func (k LookupKey) Team() *Team { return k.team }

// Match returns the match variant, or nil.
func (k LookupKey) Match() *Match { return k.match }

// Index returns the positional variant.
func (k LookupKey) Index() int { return k.index }
