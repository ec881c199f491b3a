package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core/announcement"
)

type announcementRow struct {
	ID       string    `db:"id"`
	Title    string    `db:"title"`
	Body     string    `db:"body"`
	Author   string    `db:"author"`
	PostedAt time.Time `db:"posted_at"`
}

type announcementRepository struct {
	db *sqlx.DB
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *sqlx.DB) announcement.Repository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, an announcement.Announcement) (announcement.Announcement, error) {
	if an.ID == "" {
		an.ID = uuid.NewString()
	}
	an.PostedAt = an.PostedAt.UTC()
	row := announcementRow(an)
	q := "INSERT INTO announcements (id, title, body, author, posted_at) VALUES (:id, :title, :body, :author, :posted_at)"
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return an, nil
}

func (repo *announcementRepository) QueryAnnouncements(ctx context.Context) ([]announcement.Announcement, error) {
	var rows []announcementRow
	q := "SELECT id, title, body, author, posted_at FROM announcements ORDER BY posted_at DESC, seq DESC"
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	ans := make([]announcement.Announcement, 0, len(rows))
	for _, r := range rows {
		an := announcement.Announcement(r)
		an.PostedAt = an.PostedAt.UTC()
		ans = append(ans, an)
	}
	return ans, nil
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return announcement.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind("DELETE FROM announcements WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting deleted announcements")
	}
	if cnt == 0 {
		return announcement.ErrNotFound
	}
	return nil
}
