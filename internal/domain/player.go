package domain

import "fmt"

// Player is a registered user identified by their external account ID.
// Players are created on first registration and never deleted.
type Player struct {
	DiscordID int64  `json:"discord_id" db:"discord_id"`
	Name      string `json:"name" db:"name"`
}

// Valid reports whether the player carries its identifying fields.
// A zero DiscordID means "unspecified".
func (p *Player) Valid() bool {
	return p != nil && p.DiscordID != 0
}

// Equal compares players by primary key.
func (p *Player) Equal(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.DiscordID == other.DiscordID
}

func (p *Player) String() string {
	if p == nil {
		return "<nil player>"
	}
	return fmt.Sprintf("%s(%d)", p.Name, p.DiscordID)
}
