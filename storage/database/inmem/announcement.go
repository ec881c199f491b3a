package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/classportal/core/announcement"
)

type announcementRepository struct {
	db *announcementTable
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db.announcement}
}

func (repo *announcementRepository) CreateAnnouncement(_ context.Context, an announcement.Announcement) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if an.ID == "" {
		an.ID = uuid.NewString()
	}
	repo.db.rows = append(repo.db.rows, an)
	return an, nil
}

// QueryAnnouncements walks the table backwards; later posts come first on equal PostedAt.
func (repo *announcementRepository) QueryAnnouncements(_ context.Context) ([]announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	n := len(repo.db.rows)
	ans := make([]announcement.Announcement, 0, n)
	for i := n - 1; i >= 0; i-- {
		ans = append(ans, repo.db.rows[i])
	}
	sort.SliceStable(ans, func(i, j int) bool { return ans[i].PostedAt.After(ans[j].PostedAt) })
	return ans, nil
}

func (repo *announcementRepository) DeleteAnnouncement(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, an := range repo.db.rows {
		if an.ID == id {
			repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
			return nil
		}
	}
	return announcement.ErrNotFound
}
