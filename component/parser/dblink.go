package parser

import "strings"

const dbLinkGroupSize = 3

type DBLink struct {
	Owner          string `json:"owner" yaml:"owner"`
	DBLinkName     string `json:"dblink" yaml:"dblink"`
	Username       string `json:"username" yaml:"username"`
	Host           string `json:"host" yaml:"host"`
	Created        string `json:"created" yaml:"created"`
	Hidden         string `json:"hidden" yaml:"hidden"`
	SharedInterval string `json:"shared_interval" yaml:"shared_interval"`
	Valid          string `json:"valid" yaml:"valid"`
	IntraCDB       string `json:"intra_cdb" yaml:"intra_cdb"`
}

// ParseDBLinks consumes lines in groups of three: `owner link user`, the
// host, then `created hidden shared_interval valid intra_cdb`. A short
// trailing group is dropped, as is any group with too few tokens.
func ParseDBLinks(lines []string) []DBLink {
	var links []DBLink
	for i := 0; i+dbLinkGroupSize-1 < len(lines); i += dbLinkGroupSize {
		identity := strings.Fields(lines[i])
		if len(identity) < 3 {
			skipLine("dblink", i+1, lines[i], "want owner, link and user")
			continue
		}
		attrs := strings.Fields(lines[i+2])
		if len(attrs) < 5 {
			skipLine("dblink", i+3, lines[i+2], "want 5 attributes")
			continue
		}
		links = append(links, DBLink{
			Owner:          identity[0],
			DBLinkName:     identity[1],
			Username:       identity[2],
			Host:           strings.TrimSpace(lines[i+1]),
			Created:        attrs[0],
			Hidden:         attrs[1],
			SharedInterval: attrs[2],
			Valid:          attrs[3],
			IntraCDB:       attrs[4],
		})
	}
	return links
}
