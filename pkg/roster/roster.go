// Package roster classifies a list of person-status records into sections
// and renders them as a single stacked status image.
//
// Classification is a total, deterministic partition: every record lands in
// exactly one of the Gaming, Online, or Offline sections. Section canvas
// heights are computed from member counts, never hardcoded.
package roster

import (
	"image"
	"sort"
)

// PersonaState is the enumerated presence status of a tracked person.
type PersonaState int

// Persona states, matching the upstream numeric encoding.
const (
	Offline PersonaState = iota
	Online
	Busy
	Away
	Snooze
	LookingToTrade
	LookingToPlay
)

// GenericLabel returns the plain display label for the state, i.e. the
// status text shown when the person is not in an activity. A record whose
// status text differs from this label is currently doing something.
func (s PersonaState) GenericLabel() string {
	switch s {
	case Offline:
		return "离线"
	case Away:
		return "离开"
	default:
		return "在线"
	}
}

// String returns the state name for logs.
func (s PersonaState) String() string {
	switch s {
	case Offline:
		return "offline"
	case Online:
		return "online"
	case Busy:
		return "busy"
	case Away:
		return "away"
	case Snooze:
		return "snooze"
	case LookingToTrade:
		return "looking-to-trade"
	case LookingToPlay:
		return "looking-to-play"
	default:
		return "unknown"
	}
}

// Person is one read-only person-status record, produced by the data
// simplification step (see pkg/steam).
type Person struct {
	ID       string
	Avatar   image.Image
	Name     string
	Nickname string // optional; shown in parentheses after the name
	Status   string // display status text (generic label or activity)
	State    PersonaState
}

// DisplayName returns the name with the optional parenthesized nickname.
func (p Person) DisplayName() string {
	if p.Nickname != "" {
		return p.Name + " (" + p.Nickname + ")"
	}
	return p.Name
}

// SectionKind identifies a roster section.
type SectionKind int

// Section kinds in display order.
const (
	SectionGaming SectionKind = iota
	SectionOnline
	SectionOffline
)

// Title returns the localized section heading.
func (k SectionKind) Title() string {
	switch k {
	case SectionGaming:
		return "游戏中"
	case SectionOnline:
		return "在线好友"
	default:
		return "离线"
	}
}

// Section is one classified, ordered bucket of people. Sections are built
// fresh per render call and not persisted.
type Section struct {
	Kind    SectionKind
	Members []Person
}

// gaming reports whether the record currently shows an active-activity
// string rather than the plain label for its state.
func gaming(p Person) bool {
	switch p.State {
	case Online, Away, Snooze:
		return p.Status != p.State.GenericLabel()
	default:
		return false
	}
}

// Classify partitions people into the Gaming, Online and Offline sections
// and applies the ordering rules: Gaming members sort by status text,
// Online members by persona state with Away pushed last (sort key 7), and
// Offline members keep input order. Empty sections are dropped; the
// returned slice is in display order.
func Classify(people []Person) []Section {
	var gamingMembers, onlineMembers, offlineMembers []Person
	for _, p := range people {
		switch {
		case gaming(p):
			gamingMembers = append(gamingMembers, p)
		case p.State == Offline:
			offlineMembers = append(offlineMembers, p)
		default:
			onlineMembers = append(onlineMembers, p)
		}
	}

	sort.SliceStable(gamingMembers, func(i, j int) bool {
		return gamingMembers[i].Status < gamingMembers[j].Status
	})
	sort.SliceStable(onlineMembers, func(i, j int) bool {
		return onlineSortKey(onlineMembers[i].State) < onlineSortKey(onlineMembers[j].State)
	})

	var sections []Section
	if len(gamingMembers) > 0 {
		sections = append(sections, Section{Kind: SectionGaming, Members: gamingMembers})
	}
	if len(onlineMembers) > 0 {
		sections = append(sections, Section{Kind: SectionOnline, Members: onlineMembers})
	}
	if len(offlineMembers) > 0 {
		sections = append(sections, Section{Kind: SectionOffline, Members: offlineMembers})
	}
	return sections
}

// onlineSortKey orders the Online section by persona state, except Away is
// pushed below the other online states.
func onlineSortKey(s PersonaState) int {
	if s == Away {
		return 7
	}
	return int(s)
}
