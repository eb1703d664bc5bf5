package inmemdb

import (
	"github.com/trezcool/darasa/core/announcement"
)

type announcementRepository struct {
	db *announcementTable
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db.announcement}
}

func (repo *announcementRepository) CreateAnnouncement(a announcement.Announcement) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append([]announcement.Announcement{a}, repo.db.rows...)
	return a, nil
}

func (repo *announcementRepository) QueryAnnouncements() ([]announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]announcement.Announcement, len(repo.db.rows))
	copy(rows, repo.db.rows)
	return rows, nil
}
