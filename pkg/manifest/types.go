package manifest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
)

// Manifest is a parsed assignment document
type Manifest struct {
	Assignments []Assignment `yaml:"assignments"`
}

// Assignment lists the users and permissions of one (tenant, role) pair
type Assignment struct {
	Tenant      int64   `yaml:"tenant"`
	Role        int64   `yaml:"role"`
	Users       []int64 `yaml:"users,omitempty"`
	Permissions []int64 `yaml:"permissions,omitempty"`
	Unassign    Targets `yaml:"unassign,omitempty"`
}

// Targets are the users and permissions removed from a pair
type Targets struct {
	Users       []int64 `yaml:"users,omitempty"`
	Permissions []int64 `yaml:"permissions,omitempty"`
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return &m, nil
		}
		return nil, errdefs.InvalidArgument("malformed manifest: %v", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks ids are positive and that no target is both assigned and
// removed on the same pair
func (m *Manifest) Validate() error {
	for i, a := range m.Assignments {
		where := fmt.Sprintf("assignments[%d]", i)
		if a.Tenant <= 0 {
			return errdefs.InvalidArgument("%s: tenant must be a positive id", where)
		}
		if a.Role <= 0 {
			return errdefs.InvalidArgument("%s: role must be a positive id", where)
		}
		for _, list := range []struct {
			name   string
			assign []int64
			remove []int64
		}{
			{"users", a.Users, a.Unassign.Users},
			{"permissions", a.Permissions, a.Unassign.Permissions},
		} {
			assigned := make(map[int64]bool, len(list.assign))
			for _, id := range list.assign {
				if id <= 0 {
					return errdefs.InvalidArgument("%s.%s: %d is not a positive id", where, list.name, id)
				}
				assigned[id] = true
			}
			for _, id := range list.remove {
				if id <= 0 {
					return errdefs.InvalidArgument("%s.unassign.%s: %d is not a positive id", where, list.name, id)
				}
				if assigned[id] {
					return errdefs.InvalidArgument("%s: %s %d is both assigned and unassigned", where, list.name, id)
				}
			}
		}
	}
	return nil
}

// Marshal renders the manifest as YAML
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
