package contestsim

import "time"

// Defaults used when a Config field is left at zero.
const (
	DefaultUsers         = 200
	DefaultEvents        = 24
	DefaultDecidedEvents = 12
	DefaultParticipation = 0.8
	DefaultLurkers       = 0.1
	DefaultTopN          = 10
	DefaultTimeout       = 30 * time.Second
	DefaultWorkers       = 8
)

// Generation constants.
const (
	eventSpacing  = 14 * 24 * time.Hour
	deadlineLead  = 2 * time.Hour
	noCrashChance = 0.2
	maxSkill      = 0.7
	directoryPerm = 0o750
)

// grid is the field every event is raced with.
var grid = []struct {
	ID, Name, Team, Country string
	Number                  int
}{
	{"VER", "Max Verstappen", "Red Bull Racing", "NED", 1},
	{"PER", "Sergio Pérez", "Red Bull Racing", "MEX", 11},
	{"LEC", "Charles Leclerc", "Ferrari", "MON", 16},
	{"SAI", "Carlos Sainz", "Ferrari", "ESP", 55},
	{"NOR", "Lando Norris", "McLaren", "GBR", 4},
	{"PIA", "Oscar Piastri", "McLaren", "AUS", 81},
	{"HAM", "Lewis Hamilton", "Mercedes", "GBR", 44},
	{"RUS", "George Russell", "Mercedes", "GBR", 63},
	{"ALO", "Fernando Alonso", "Aston Martin", "ESP", 14},
	{"STR", "Lance Stroll", "Aston Martin", "CAN", 18},
	{"GAS", "Pierre Gasly", "Alpine", "FRA", 10},
	{"OCO", "Esteban Ocon", "Alpine", "FRA", 31},
	{"ALB", "Alexander Albon", "Williams", "THA", 23},
	{"SAR", "Logan Sargeant", "Williams", "USA", 2},
	{"TSU", "Yuki Tsunoda", "RB", "JPN", 22},
	{"RIC", "Daniel Ricciardo", "RB", "AUS", 3},
	{"BOT", "Valtteri Bottas", "Sauber", "FIN", 77},
	{"ZHO", "Zhou Guanyu", "Sauber", "CHN", 24},
	{"HUL", "Nico Hülkenberg", "Haas", "GER", 27},
	{"MAG", "Kevin Magnussen", "Haas", "DEN", 20},
}

var circuits = []string{
	"Bahrain", "Jeddah", "Melbourne", "Suzuka", "Shanghai", "Miami", "Imola", "Monaco",
	"Montreal", "Barcelona", "Spielberg", "Silverstone", "Budapest", "Spa", "Zandvoort",
	"Monza", "Baku", "Singapore", "Austin", "Mexico City", "São Paulo", "Las Vegas", "Lusail", "Abu Dhabi",
}
