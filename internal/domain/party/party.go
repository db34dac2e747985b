// Package party defines groups of actors that share kill credit and combat news.
// This package is PURE and must NOT import any infrastructure packages.
package party

// Party is a set of actor ids with a leader. Membership is managed by the
// world registry; combat only reads it.
type Party struct {
	ID      string   `json:"id"`
	Leader  string   `json:"leader"`
	members []string
}

// New creates a party led by leader.
func New(id, leader string) *Party {
	return &Party{ID: id, Leader: leader, members: []string{leader}}
}

// Add inserts a member. Adding twice is a no-op.
func (p *Party) Add(actorID string) {
	if p.Has(actorID) {
		return
	}
	p.members = append(p.members, actorID)
}

// Remove drops a member. A departing leader hands over to the next member.
func (p *Party) Remove(actorID string) {
	for i, id := range p.members {
		if id == actorID {
			p.members = append(p.members[:i], p.members[i+1:]...)
			break
		}
	}
	if p.Leader == actorID && len(p.members) > 0 {
		p.Leader = p.members[0]
	}
}

// Has reports membership.
func (p *Party) Has(actorID string) bool {
	for _, id := range p.members {
		if id == actorID {
			return true
		}
	}
	return false
}

// Members returns member ids in join order.
func (p *Party) Members() []string {
	return append([]string(nil), p.members...)
}

// Size returns the member count.
func (p *Party) Size() int {
	return len(p.members)
}
