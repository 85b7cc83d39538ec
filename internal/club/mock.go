package club

import (
	"fmt"
	"sync"
)

// MockStore is a mock implementation of the MemberStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertMemberFunc     func(member Member) error
	UpsertMembersFunc    func(members []Member) error
	GetMemberFunc        func(memberID string) (*Member, error)
	GetActiveMembersFunc func() ([]Member, error)
	SearchMembersFunc    func(term string, excludeIDs []string) ([]Member, error)
	SetMemberStatusFunc  func(memberID string, status MemberStatus) error
	ClearFunc            func()

	// Call records
	UpsertMemberCalls  []Member
	UpsertMembersCalls [][]Member
	GetMemberCalls     []string
	SearchMembersCalls []struct {
		Term       string
		ExcludeIDs []string
	}
	SetMemberStatusCalls []struct {
		MemberID string
		Status   MemberStatus
	}
}

var _ MemberStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertMemberCalls = nil
	m.UpsertMembersCalls = nil
	m.GetMemberCalls = nil
	m.SearchMembersCalls = nil
	m.SetMemberStatusCalls = nil
}

func (m *MockStore) UpsertMember(member Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertMemberCalls = append(m.UpsertMemberCalls, member)
	if m.UpsertMemberFunc != nil {
		return m.UpsertMemberFunc(member)
	}
	return nil
}

func (m *MockStore) UpsertMembers(members []Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertMembersCalls = append(m.UpsertMembersCalls, members)
	if m.UpsertMembersFunc != nil {
		return m.UpsertMembersFunc(members)
	}
	return nil
}

func (m *MockStore) GetMember(memberID string) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMemberCalls = append(m.GetMemberCalls, memberID)
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(memberID)
	}
	return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
}

func (m *MockStore) GetActiveMembers() ([]Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetActiveMembersFunc != nil {
		return m.GetActiveMembersFunc()
	}
	return []Member{}, nil
}

func (m *MockStore) SearchMembers(term string, excludeIDs []string) ([]Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchMembersCalls = append(m.SearchMembersCalls, struct {
		Term       string
		ExcludeIDs []string
	}{term, excludeIDs})
	if m.SearchMembersFunc != nil {
		return m.SearchMembersFunc(term, excludeIDs)
	}
	return []Member{}, nil
}

func (m *MockStore) SetMemberStatus(memberID string, status MemberStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetMemberStatusCalls = append(m.SetMemberStatusCalls, struct {
		MemberID string
		Status   MemberStatus
	}{memberID, status})
	if m.SetMemberStatusFunc != nil {
		return m.SetMemberStatusFunc(memberID, status)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
