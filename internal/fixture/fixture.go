// Package fixture reads YAML datasets of users and submissions and loads
// them into a store.
package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/papersearch/papersearch/papersearch"
	"github.com/papersearch/papersearch/papersearch/contact"
	"github.com/papersearch/papersearch/papersearch/record"
)

// Dataset is the on-disk form of a conference snapshot.
type Dataset struct {
	// Conference, when set, replaces the configured conference settings.
	Conference *contact.Conf   `yaml:"conference,omitempty"`
	Users      []User          `yaml:"users"`
	Papers     []*record.Paper `yaml:"papers"`
}

// User is a dataset user.
type User struct {
	ID                  int      `yaml:"id"`
	Email               string   `yaml:"email"`
	Roles               []string `yaml:"roles,omitempty"`
	Tokens              []int    `yaml:"tokens,omitempty"`
	TrackManager        bool     `yaml:"track_manager,omitempty"`
	TrackViewRestricted bool     `yaml:"track_view_restricted,omitempty"`
}

var roleBits = map[string]int{
	"pc":    contact.RolePC,
	"chair": contact.RoleChair,
}

// PaperWriter stores submissions in one transaction.
type PaperWriter interface {
	PutPapers(ctx context.Context, ps []*record.Paper) (int, error)
}

// Read loads and validates the dataset at path.
func Read(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, papersearch.Wrap(papersearch.ErrIO, "read dataset", err)
	}
	return Parse(data)
}

// Parse decodes and validates a dataset. Unknown keys are errors.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d Dataset
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, papersearch.Wrap(papersearch.ErrFixture, "parse dataset", err)
	}
	if err := d.Validate(); err != nil {
		return nil, papersearch.Wrap(papersearch.ErrFixture, "invalid dataset", err)
	}
	return &d, nil
}

// Validate checks IDs and roles.
func (d *Dataset) Validate() error {
	users := make(map[int]bool)
	emails := make(map[string]bool)
	for _, u := range d.Users {
		if u.ID <= 0 {
			return fmt.Errorf("user %q: id must be positive", u.Email)
		}
		if users[u.ID] {
			return fmt.Errorf("duplicate user id %d", u.ID)
		}
		users[u.ID] = true
		if e := strings.ToLower(u.Email); e != "" {
			if emails[e] {
				return fmt.Errorf("duplicate user email %q", u.Email)
			}
			emails[e] = true
		}
		for _, r := range u.Roles {
			if _, ok := roleBits[strings.ToLower(r)]; !ok {
				return fmt.Errorf("user %d: unknown role %q", u.ID, r)
			}
		}
	}

	papers := make(map[int]bool)
	for _, p := range d.Papers {
		if p == nil || p.PaperID <= 0 {
			return errors.New("paper id must be positive")
		}
		if papers[p.PaperID] {
			return fmt.Errorf("duplicate paper id %d", p.PaperID)
		}
		papers[p.PaperID] = true
		reviews := make(map[int]bool)
		for _, r := range p.Reviews {
			if reviews[r.ReviewID] {
				return fmt.Errorf("paper %d: duplicate review id %d", p.PaperID, r.ReviewID)
			}
			reviews[r.ReviewID] = true
		}
	}
	return nil
}

// Load stores every paper of d through w and returns the count.
func (d *Dataset) Load(ctx context.Context, w PaperWriter) (int, error) {
	n, err := w.PutPapers(ctx, d.Papers)
	if err != nil {
		return 0, papersearch.Wrap(papersearch.ErrSQL, "load papers", err)
	}
	return n, nil
}

// Contact returns the contact for u within conf.
func (u User) Contact(conf *contact.Conf) *contact.Contact {
	roles := 0
	for _, r := range u.Roles {
		roles |= roleBits[strings.ToLower(r)]
	}
	c := contact.New(conf, u.ID, u.Email, roles)
	c.Tokens = u.Tokens
	c.TrackManager = u.TrackManager
	c.TrackViewRestricted = u.TrackViewRestricted
	return c
}

// Lookup finds a user by email or numeric ID. "anonymous" and "" name a
// signed-out visitor with no roles.
func (d *Dataset) Lookup(conf *contact.Conf, who string) (*contact.Contact, error) {
	who = strings.TrimSpace(who)
	if who == "" || strings.EqualFold(who, "anonymous") {
		return contact.New(conf, 0, "", 0), nil
	}
	id, idErr := strconv.Atoi(who)
	for _, u := range d.Users {
		if (idErr == nil && u.ID == id) || strings.EqualFold(u.Email, who) {
			return u.Contact(conf), nil
		}
	}
	return nil, papersearch.NotFoundError("user " + who)
}
