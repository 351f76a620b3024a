package attiotest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedObject defines a custom object to create before seeding records.
type SeedObject struct {
	APISlug      string `yaml:"api_slug"`
	SingularNoun string `yaml:"singular_noun"`
	PluralNoun   string `yaml:"plural_noun"`
}

// SeedRecord defines one record to seed, with plain-form values.
type SeedRecord struct {
	Object string         `yaml:"object"`
	Values map[string]any `yaml:"values"`
}

// SeedList defines a list to seed.
type SeedList struct {
	APISlug      string `yaml:"api_slug"`
	Name         string `yaml:"name"`
	ParentObject string `yaml:"parent_object"`
}

// SeedTask defines a task to seed.
type SeedTask struct {
	Content     string `yaml:"content"`
	DeadlineAt  string `yaml:"deadline_at"`
	IsCompleted bool   `yaml:"is_completed"`
}

// SeedMember defines a workspace member to seed.
type SeedMember struct {
	FirstName    string `yaml:"first_name"`
	LastName     string `yaml:"last_name"`
	EmailAddress string `yaml:"email_address"`
	AccessLevel  string `yaml:"access_level"`
}

// Seed is a parsed seed fixture file.
type Seed struct {
	Objects []SeedObject `yaml:"objects"`
	Records []SeedRecord `yaml:"records"`
	Lists   []SeedList   `yaml:"lists"`
	Tasks   []SeedTask   `yaml:"tasks"`
	Members []SeedMember `yaml:"members"`
}

// LoadSeed reads and parses a YAML seed fixture file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed parses YAML seed fixture content.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}

	for i, o := range seed.Objects {
		if o.APISlug == "" {
			return nil, fmt.Errorf("seed object %d: api_slug is required", i)
		}
	}
	for i, r := range seed.Records {
		if r.Object == "" {
			return nil, fmt.Errorf("seed record %d: object is required", i)
		}
	}
	for i, l := range seed.Lists {
		if l.APISlug == "" || l.ParentObject == "" {
			return nil, fmt.Errorf("seed list %d: api_slug and parent_object are required", i)
		}
	}
	for i, m := range seed.Members {
		if m.EmailAddress == "" {
			return nil, fmt.Errorf("seed member %d: email_address is required", i)
		}
		if m.AccessLevel == "" {
			seed.Members[i].AccessLevel = "member"
		}
	}
	return &seed, nil
}

// Apply loads a seed's contents into the server's collections. Records
// seeded against unknown objects are an error.
func (s *Server) Apply(seed *Seed) error {
	for _, o := range seed.Objects {
		s.objects.Set(o.APISlug, objectData{
			ObjectID:     NewID(),
			APISlug:      o.APISlug,
			SingularNoun: o.SingularNoun,
			PluralNoun:   o.PluralNoun,
			CreatedAt:    now(),
		})
	}
	for _, r := range seed.Records {
		if _, ok := s.lookupObject(r.Object); !ok {
			return fmt.Errorf("seed record: object %q not found", r.Object)
		}
		values := r.Values
		if values == nil {
			values = map[string]any{}
		}
		id := NewID()
		s.records.Set(id, recordData{
			RecordID:  id,
			Object:    r.Object,
			Values:    values,
			CreatedAt: now(),
		})
	}
	for _, l := range seed.Lists {
		if _, ok := s.lookupObject(l.ParentObject); !ok {
			return fmt.Errorf("seed list %q: parent object %q not found", l.APISlug, l.ParentObject)
		}
		s.lists.Set(l.APISlug, listData{
			ListID:       NewID(),
			APISlug:      l.APISlug,
			Name:         l.Name,
			ParentObject: l.ParentObject,
			CreatedAt:    now(),
		})
	}
	for _, t := range seed.Tasks {
		id := NewID()
		s.tasks.Set(id, taskData{
			TaskID:      id,
			Content:     t.Content,
			Format:      "plaintext",
			DeadlineAt:  t.DeadlineAt,
			IsCompleted: t.IsCompleted,
			Assignees:   []any{},
			Linked:      []any{},
			CreatedAt:   now(),
		})
	}
	for _, m := range seed.Members {
		id := NewID()
		s.members.Set(id, memberData{
			MemberID:     id,
			FirstName:    m.FirstName,
			LastName:     m.LastName,
			EmailAddress: m.EmailAddress,
			AccessLevel:  m.AccessLevel,
			CreatedAt:    now(),
		})
	}
	return nil
}

// SeedFile loads a YAML seed fixture from disk and applies it.
func (s *Server) SeedFile(path string) error {
	seed, err := LoadSeed(path)
	if err != nil {
		return err
	}
	return s.Apply(seed)
}
