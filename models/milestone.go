package models

// Milestone is one named stage in the fixed journey a letter passes
// through on its way to Santa.
type Milestone string

const (
	MilestoneElfSortingStation Milestone = "ELF_SORTING_STATION"
	MilestoneCandyCaneForest   Milestone = "CANDY_CANE_FOREST"
	MilestoneReindeerRunway    Milestone = "REINDEER_RUNWAY"
	MilestoneAuroraGate        Milestone = "AURORA_GATE"
	MilestoneSantasDesk        Milestone = "SANTAS_DESK"
	MilestoneNorthPoleWorkshop Milestone = "NORTH_POLE_WORKSHOP"
)

type MilestoneInfo struct {
	ID          Milestone `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StoryText   string    `json:"storyText"`
	// EmailDay is the day number used in story emails. 0 means no daily
	// email for this stage (the first and last entries).
	EmailDay int `json:"emailDay"`
}

// milestoneCatalog is the ordered journey. Index in this slice is the
// milestone index stored on every child.
var milestoneCatalog = []MilestoneInfo{
	{
		ID:          MilestoneElfSortingStation,
		Name:        "Elf Sorting Station",
		Description: "Where magical elves receive and sort all incoming letters",
		StoryText:   "Your letter has just begun its magical journey! Jingles the Elf has been assigned as your letter's personal guide.",
		EmailDay:    0,
	},
	{
		ID:          MilestoneCandyCaneForest,
		Name:        "Candy Cane Forest",
		Description: "A magical forest of peppermint trees and candy cane paths",
		StoryText:   "Your letter is traveling through the enchanted Candy Cane Forest, where the trees are made of peppermint!",
		EmailDay:    1,
	},
	{
		ID:          MilestoneReindeerRunway,
		Name:        "Reindeer Runway",
		Description: "Where Santa's reindeer prepare for their magical flights",
		StoryText:   "The reindeer have spotted your letter! They're giving it a special inspection before it continues to Santa.",
		EmailDay:    2,
	},
	{
		ID:          MilestoneAuroraGate,
		Name:        "Aurora Gate",
		Description: "The shimmering northern lights gateway to Santa's realm",
		StoryText:   "Your letter passed through the magical Northern Lights and it started GLOWING with Christmas spirit!",
		EmailDay:    3,
	},
	{
		ID:          MilestoneSantasDesk,
		Name:        "Santa's Workshop",
		Description: "The final destination - Santa's desk at the North Pole",
		StoryText:   "YOUR LETTER HAS BEEN DELIVERED! Santa is reading it right now with a big smile on his face!",
		EmailDay:    4,
	},
	{
		ID:          MilestoneNorthPoleWorkshop,
		Name:        "Delivered!",
		Description: "Your letter has been delivered to Santa!",
		StoryText:   "Journey complete! Santa has your letter and is preparing something special for you!",
		EmailDay:    0,
	},
}

// FirstMilestone is the initial state of every child.
func FirstMilestone() MilestoneInfo {
	return milestoneCatalog[0]
}

// FinalMilestoneIndex is the terminal index; the advancer never selects
// children already there.
func FinalMilestoneIndex() int {
	return len(milestoneCatalog) - 1
}

// MilestoneAt returns the catalog entry for the given index, clamped to
// the catalog bounds.
func MilestoneAt(index int) MilestoneInfo {
	if index < 0 {
		index = 0
	}
	if index > FinalMilestoneIndex() {
		index = FinalMilestoneIndex()
	}
	return milestoneCatalog[index]
}

// MilestoneIndex returns the position of m in the catalog, or -1 if m is
// not a known milestone.
func MilestoneIndex(m Milestone) int {
	for i, info := range milestoneCatalog {
		if info.ID == m {
			return i
		}
	}
	return -1
}

// MilestoneEmailable reports whether reaching index triggers a daily story
// email. The first and last stages never do.
func MilestoneEmailable(index int) bool {
	return index > 0 && index < FinalMilestoneIndex()
}

// MilestoneCatalog returns the full ordered journey for tracker views.
func MilestoneCatalog() []MilestoneInfo {
	out := make([]MilestoneInfo, len(milestoneCatalog))
	copy(out, milestoneCatalog)
	return out
}
