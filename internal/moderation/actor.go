package moderation

// Actor identifies who performed a moderation action: a human moderator or the
// community acting through report thresholds. Automatic actions carry no user
// id, only the fixed "community" name, so the audit log stays unambiguous.
type Actor struct {
	ID   *int64
	Name string
}

const communityName = "community"

func Community() Actor {
	return Actor{Name: communityName}
}

func Human(id int64, username string) Actor {
	return Actor{ID: &id, Name: username}
}

func (a Actor) IsCommunity() bool {
	return a.ID == nil
}
