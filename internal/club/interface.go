package club

// MemberStore defines the interface for interacting with the club's member roster.
type MemberStore interface {
	UpsertMember(member Member) error
	UpsertMembers(members []Member) error
	GetMember(memberID string) (*Member, error)
	GetActiveMembers() ([]Member, error)
	SearchMembers(term string, excludeIDs []string) ([]Member, error)
	SetMemberStatus(memberID string, status MemberStatus) error
	Clear()
}
