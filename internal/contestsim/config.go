package contestsim

import "time"

// Config holds the simulator settings.
type Config struct {
	Seed          uint64        // Seed for every random choice; equal seeds give equal contests
	Users         int           // Registered users
	Events        int           // Scheduled events
	DecidedEvents int           // Events in the past with an official result
	Participation float64       // Chance that a participating user forecasts a given event
	Lurkers       float64       // Share of users who never forecast
	Workers       int           // Concurrent generators and HTTP checks
	Output        string        // Snapshot file to write; empty skips writing
	SQLitePath    string        // Import the contest into this SQLite database
	DatabaseURL   string        // Import the contest into this Postgres database
	BaseURL       string        // Running service to verify; empty skips verification
	TopN          int           // Leaderboard entries compared against the service
	Timeout       time.Duration // HTTP request timeout
	Verbose       bool          // Log every mismatch
}

// Stats holds run statistics.
type Stats struct {
	Users         int
	Events        int
	DecidedEvents int
	Forecasts     int
	Participants  int
	UsersChecked  int
	Mismatches    int
	StartTime     time.Time
	Duration      time.Duration
}
