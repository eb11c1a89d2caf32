package repository

import "survivor_draft/internal/storage"

type Repositories struct {
	Match MatchRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Match: NewMatchRepository(db),
	}
}
