package models

// Player is one roster entry for a team and season.
type Player struct {
	ID           int64   `json:"id" db:"id"`
	TeamID       int64   `json:"team_id" db:"team_id"`
	Name         string  `json:"name" db:"name" validate:"required"`
	Position     *string `json:"position,omitempty" db:"position"`
	ClassYear    *string `json:"class_year,omitempty" db:"class_year"`
	HeightInches *int    `json:"height_inches,omitempty" db:"height_inches"`
	Season       int     `json:"season" db:"season"`

	Stats *PlayerStats `json:"stats,omitempty" db:"-"`
}

// PlayerStats is the per-season stat line scraped for a player. Every column is
// optional; sites publish different subsets.
type PlayerStats struct {
	PlayerID      int64    `json:"player_id" db:"player_id"`
	Season        int      `json:"season" db:"season"`
	MatchesStart  *float64 `json:"ms,omitempty" db:"ms"`
	MatchesPlayed *float64 `json:"mp,omitempty" db:"mp"`
	SetsPlayed    *float64 `json:"sp,omitempty" db:"sp"`
	Points        *float64 `json:"pts,omitempty" db:"pts"`
	PointsPerSet  *float64 `json:"pts_per_set,omitempty" db:"pts_per_set"`
	Kills         *float64 `json:"k,omitempty" db:"k"`
	KillsPerSet   *float64 `json:"k_per_set,omitempty" db:"k_per_set"`
	AttackErrors  *float64 `json:"ae,omitempty" db:"ae"`
	TotalAttacks  *float64 `json:"ta,omitempty" db:"ta"`
	HitPct        *float64 `json:"hit_pct,omitempty" db:"hit_pct"`
	Assists       *float64 `json:"assists,omitempty" db:"assists"`
	AssistsPerSet *float64 `json:"assists_per_set,omitempty" db:"assists_per_set"`
	ServiceAces   *float64 `json:"sa,omitempty" db:"sa"`
	AcesPerSet    *float64 `json:"sa_per_set,omitempty" db:"sa_per_set"`
	ServiceErrors *float64 `json:"se,omitempty" db:"se"`
	Digs          *float64 `json:"digs,omitempty" db:"digs"`
	DigsPerSet    *float64 `json:"digs_per_set,omitempty" db:"digs_per_set"`
	ReceptErrors  *float64 `json:"re,omitempty" db:"re"`
	TotalRecepts  *float64 `json:"tre,omitempty" db:"tre"`
	ReceptPct     *float64 `json:"rec_pct,omitempty" db:"rec_pct"`
	BlockSolos    *float64 `json:"bs,omitempty" db:"bs"`
	BlockAssists  *float64 `json:"ba,omitempty" db:"ba"`
	TotalBlocks   *float64 `json:"tb,omitempty" db:"tb"`
	BlocksPerSet  *float64 `json:"blocks_per_set,omitempty" db:"blocks_per_set"`
	BallHandleErr *float64 `json:"bhe,omitempty" db:"bhe"`
}

// PlayerListResponse is the API response for listing players.
type PlayerListResponse struct {
	Results []Player `json:"results"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}
