package core

// fakes_test.go holds the in-memory collaborators shared by the pipeline
// tests. fakeUserStore doubles as the persisted state for round-trip tests:
// BulkInsert feeds the records FindExisting matches against, and enforces
// username/email uniqueness the way the database unique indexes would.

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type fakeUserStore struct {
	existing []ExistingUser

	findErr    error
	insertErr  error
	findCalls  int
	lastLimit  int
	inserted   [][]ResolvedUser
}

func (f *fakeUserStore) FindExisting(ctx context.Context, emails, userNames []string, limit int) ([]ExistingUser, error) {
	f.findCalls++
	f.lastLimit = limit
	if f.findErr != nil {
		return nil, f.findErr
	}

	emailSet := make(map[string]bool, len(emails))
	for _, e := range emails {
		emailSet[e] = true
	}
	nameSet := make(map[string]bool, len(userNames))
	for _, n := range userNames {
		nameSet[n] = true
	}

	var out []ExistingUser
	for _, e := range f.existing {
		if len(out) == limit {
			break
		}
		if (e.Email != "" && emailSet[e.Email]) || nameSet[e.UserName] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeUserStore) BulkInsert(ctx context.Context, users []ResolvedUser) error {
	if f.insertErr != nil {
		return f.insertErr
	}

	// All-or-nothing: check the whole batch before mutating state.
	for _, u := range users {
		for _, e := range f.existing {
			if e.UserName == u.UserName || (u.Email != "" && e.Email == u.Email) {
				return ErrDuplicateUser
			}
		}
	}
	for _, u := range users {
		f.existing = append(f.existing, ExistingUser{Email: u.Email, UserName: u.UserName})
	}
	f.inserted = append(f.inserted, users)
	return nil
}

type fakeRoleStore struct {
	roles map[string]Role
}

func (f *fakeRoleStore) FindByName(ctx context.Context, name string) (Role, error) {
	if r, ok := f.roles[name]; ok {
		return r, nil
	}
	return Role{}, ErrRoleNotFound
}

type fakeGroupStore struct {
	groups map[uuid.UUID]Group
	err    error
}

func (f *fakeGroupStore) Get(ctx context.Context, id, client uuid.UUID) (Group, error) {
	if f.err != nil {
		return Group{}, f.err
	}
	g, ok := f.groups[id]
	if !ok || g.Client != client {
		return Group{}, ErrGroupNotFound
	}
	return g, nil
}

type fakeConfigProvider struct {
	cfg RegistrationConfig
	err error
}

func (f *fakeConfigProvider) DefaultConfig(ctx context.Context, client uuid.UUID) (RegistrationConfig, error) {
	if f.err != nil {
		return RegistrationConfig{}, f.err
	}
	return f.cfg, nil
}

// fakeHasher marks hashes deterministically so tests can verify that
// plaintext never reaches the store.
type fakeHasher struct {
	err error
}

func (f fakeHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + plaintext, nil
}

type fakeAudit struct {
	entries []AuditEntry
	err     error
}

func (f *fakeAudit) Record(ctx context.Context, entry AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

// testConfig is the registration config used across tests: the canonical
// six fields, email optional.
func testConfig() RegistrationConfig {
	return RegistrationConfig{
		ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Fields: []FieldDescriptor{
			{FieldName: "userName", Required: true},
			{FieldName: "password", Required: true},
			{FieldName: "fullName", Required: true},
			{FieldName: "gender", Required: true},
			{FieldName: "dateOfBirth", Required: true},
			{FieldName: "email"},
		},
	}
}

// validUser returns a schema-valid row with a unique username.
func validUser(n int) CsvUser {
	return CsvUser{
		UserName:    fmt.Sprintf("candidate%02d", n),
		Password:    "s3cret-pass",
		FullName:    fmt.Sprintf("Candidate Number %d", n),
		Gender:      "Female",
		DateOfBirth: "1994-05-12",
		Email:       fmt.Sprintf("candidate%02d@example.com", n),
	}
}

// newTestService wires a Service over the fakes with the Candidate role
// present.
func newTestService(users *fakeUserStore, opts Options) (*Service, *fakeUserStore) {
	if users == nil {
		users = &fakeUserStore{}
	}
	roles := &fakeRoleStore{roles: map[string]Role{
		CandidateRoleName: {ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: CandidateRoleName},
	}}
	groups := &fakeGroupStore{groups: map[uuid.UUID]Group{}}
	configs := &fakeConfigProvider{cfg: testConfig()}
	return NewService(users, roles, groups, configs, fakeHasher{}, nil, opts), users
}

var errStoreDown = errors.New("store unavailable")
