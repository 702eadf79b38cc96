package normalizer

import "strings"

type member struct {
	id    string
	names []string
}

// FOMC officials in a fixed lookup order so that text mentioning several
// names always resolves to the same speaker.
var members = []member{
	{"powell", []string{"powell", "jerome powell"}},
	{"jefferson", []string{"jefferson", "philip jefferson"}},
	{"williams", []string{"williams", "john williams"}},
	{"waller", []string{"waller", "christopher waller"}},
	{"bowman", []string{"bowman", "michelle bowman"}},
	{"kugler", []string{"kugler", "adriana kugler"}},
	{"cook", []string{"cook", "lisa cook"}},
	{"barr", []string{"barr", "michael barr"}},
	{"miran", []string{"miran", "stephen miran"}},
	{"goolsbee", []string{"goolsbee", "austan goolsbee"}},
	{"schmid", []string{"schmid", "jeff schmid"}},
	{"hammack", []string{"hammack", "beth hammack"}},
	{"logan", []string{"logan", "lorie logan"}},
	{"bostic", []string{"bostic", "raphael bostic"}},
	{"collins", []string{"collins", "susan collins"}},
	{"harker", []string{"harker", "patrick harker"}},
	{"kashkari", []string{"kashkari", "neel kashkari"}},
	{"daly", []string{"daly", "mary daly"}},
	{"barkin", []string{"barkin", "tom barkin"}},
}

// MatchMember resolves an FOMC member id from free text, or "" when no
// known official is mentioned.
func MatchMember(text string) string {
	t := strings.ToLower(text)
	for _, m := range members {
		for _, name := range m.names {
			if strings.Contains(t, name) {
				return m.id
			}
		}
	}
	return ""
}
