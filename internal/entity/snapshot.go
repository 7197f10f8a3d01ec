package entity

// Step is one entry of the move list shown to the player.
type Step struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// Snapshot is everything a view needs to render a game after a change.
type Snapshot struct {
	GameID     string     `json:"game_id"`
	Key        string     `json:"key"`
	Grid       Grid       `json:"grid"`
	Status     GameStatus `json:"status"`
	StatusText string     `json:"status_text"`
	StepCount  int        `json:"step_count"`
	Cursor     int        `json:"cursor"`
	Steps      []Step     `json:"steps"`
}
