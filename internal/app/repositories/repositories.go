package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	ProgramRepository     *ProgramRepository
	ScheduleRepository    *ScheduleRepository
	ApplicationRepository *ApplicationRepository
	ParticipantRepository *ParticipantRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		ProgramRepository:     NewProgramRepository(db),
		ScheduleRepository:    NewScheduleRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
		ParticipantRepository: NewParticipantRepository(db),
	}
}
