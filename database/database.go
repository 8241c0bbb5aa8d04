package database

import (
	"gorm.io/gorm"

	"github.com/startsnapfun/startsnap-backend/models"
)

type Database struct {
	userRepo     *UserRepo
	sessionRepo  *SessionRepo
	projectRepo  *ProjectRepo
	vibeLogRepo  *VibeLogRepo
	feedbackRepo *FeedbackRepo
	profileRepo  *ProfileRepo
	activityRepo *ActivityRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:     NewUserRepo(db),
		sessionRepo:  NewSessionRepo(db),
		projectRepo:  NewProjectRepo(db),
		vibeLogRepo:  NewVibeLogRepo(db),
		feedbackRepo: NewFeedbackRepo(db),
		profileRepo:  NewProfileRepo(db),
		activityRepo: NewActivityRepo(db),
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Profile{},
		&models.Project{},
		&models.VibeLog{},
		&models.Feedback{},
		&models.FeedbackReply{},
		&models.ActivityEvent{},
	)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) SessionRepo() *SessionRepo {
	return d.sessionRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) VibeLogRepo() *VibeLogRepo {
	return d.vibeLogRepo
}

func (d Database) FeedbackRepo() *FeedbackRepo {
	return d.feedbackRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) ActivityRepo() *ActivityRepo {
	return d.activityRepo
}
