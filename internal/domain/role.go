package domain

import (
	"encoding/json"
	"sort"
)

type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// RoleSet is serialized as a JSON array of role names. Names are kept
// verbatim: only the literal "ROLE_ADMIN" grants RoleAdmin.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Sorted returns the roles in a stable order.
func (s RoleSet) Sorted() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(s))
	for _, r := range s.Sorted() {
		names = append(names, string(r))
	}
	return json.Marshal(names)
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := make(RoleSet, len(names))
	for _, n := range names {
		set[Role(n)] = struct{}{}
	}
	*s = set
	return nil
}
