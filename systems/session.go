package systems

// TickCounters are per-tick tallies read by telemetry.
type TickCounters struct {
	Fissions         int
	TerminalFissions int
	FriendlySkips    int
	PlayerContacts   int
	EnemyContacts    int
	DamageTaken      float64
	Pickups          int
	Expired          int
	Shots            int
	Dashes           int
}

// Session is the state shared by systems for one game.
type Session struct {
	// TotalEvents counts fission reactions over the whole session.
	TotalEvents uint64
	Tick        int64
	GameOver    bool
	Threat      int

	PlayerContacts PlayerCollisionMap
	EnemyContacts  EnemyCollisionMap

	PlayerEvents EventQueue[PlayerCollideEvent]
	EnemyEvents  EventQueue[EnemyCollideEvent]
	Feedback     EventQueue[FeedbackEvent]

	Commands *Commands
	Counters TickCounters
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		PlayerContacts: make(PlayerCollisionMap),
		EnemyContacts:  make(EnemyCollisionMap),
		Commands:       NewCommands(),
		Threat:         1,
	}
}

// EndTick drops this tick's events and counters.
func (s *Session) EndTick() {
	s.PlayerEvents.Clear()
	s.EnemyEvents.Clear()
	s.Feedback.Clear()
	s.Counters = TickCounters{}
	s.Tick++
}
